package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"QuoteAdjuster/internal/collector"
	"QuoteAdjuster/internal/config"
	"QuoteAdjuster/internal/recorder"
)

// runtime holds the components shared by every subcommand.
type runtime struct {
	Config    *config.Config
	Collector *collector.Collector
	Recorder  recorder.Recorder
}

func loadRuntime(cfgPath string) (*runtime, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	fetcher := collector.NewYahooFetcher(cfg.Proxy, time.Duration(cfg.Provider.TimeoutSec)*time.Second)
	fetcher.BaseURL = cfg.Provider.BaseURL
	fetcher.UserAgent = cfg.Provider.UserAgent
	log.Printf("[INFO] data source: %s", fetcher.Name())

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	return &runtime{
		Config:    cfg,
		Collector: collector.NewCollector(fetcher, cfg.Provider.Threads),
		Recorder:  rec,
	}, nil
}

func (r *runtime) Close() {
	if err := r.Recorder.Close(); err != nil {
		log.Printf("[WARN] close recorder: %v", err)
	}
}
