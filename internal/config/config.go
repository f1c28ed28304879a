package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Job is one scheduled export.
type Job struct {
	Name         string   `yaml:"name"`
	Cron         string   `yaml:"cron"`
	Tickers      []string `yaml:"tickers"`
	LookbackDays int      `yaml:"lookback_days"`
	OutputDir    string   `yaml:"output_dir"`
	Format       string   `yaml:"format"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Provider struct {
		BaseURL    string `yaml:"base_url"`
		UserAgent  string `yaml:"user_agent"`
		Threads    int    `yaml:"threads"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"provider"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Jobs  []Job  `yaml:"jobs"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("FETCH_THREADS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			cfg.Provider.Threads = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8501"
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Provider.UserAgent == "" {
		cfg.Provider.UserAgent = "Mozilla/5.0"
	}
	if cfg.Provider.Threads == 0 {
		cfg.Provider.Threads = 4
	}
	if cfg.Provider.TimeoutSec == 0 {
		cfg.Provider.TimeoutSec = 30
	}
	for i := range cfg.Jobs {
		j := &cfg.Jobs[i]
		if j.LookbackDays == 0 {
			j.LookbackDays = 30
		}
		if j.OutputDir == "" {
			j.OutputDir = "data/exports"
		}
		if j.Format == "" {
			j.Format = "csv"
		}
		for k, t := range j.Tickers {
			j.Tickers[k] = strings.ToUpper(strings.TrimSpace(t))
		}
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Provider.Threads < 0 {
		return fmt.Errorf("provider.threads must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	seen := map[string]bool{}
	for i, j := range c.Jobs {
		if j.Name == "" {
			return fmt.Errorf("jobs[%d].name is required", i)
		}
		if seen[j.Name] {
			return fmt.Errorf("jobs[%d]: duplicate name %q", i, j.Name)
		}
		seen[j.Name] = true
		if j.Cron == "" {
			return fmt.Errorf("jobs[%d].cron is required", i)
		}
		if len(j.Tickers) == 0 {
			return fmt.Errorf("jobs[%d].tickers must not be empty", i)
		}
		if j.LookbackDays < 0 {
			return fmt.Errorf("jobs[%d].lookback_days must not be negative", i)
		}
	}
	return nil
}
