package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"QuoteAdjuster/internal/notifier"
	"QuoteAdjuster/internal/scheduler"

	"github.com/spf13/cobra"
)

func newScheduleCmd(cfgPath *string) *cobra.Command {
	var runNow string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the configured export jobs on their cron schedules",
		RunE: func(c *cobra.Command, args []string) error {
			rt, err := loadRuntime(*cfgPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			cfg := rt.Config
			if len(cfg.Jobs) == 0 {
				return fmt.Errorf("no jobs configured in %s", *cfgPath)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var tn *notifier.TelegramNotifier
			if cfg.Telegram.BotToken != "" {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			}

			sched := scheduler.NewScheduler(ctx, rt.Collector, tn, rt.Recorder)
			if err := sched.RegisterAll(cfg.Jobs); err != nil {
				return fmt.Errorf("register cron jobs: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			if tn.Enabled() {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Println("[INFO] Telegram polling started")
			}

			if runNow != "" {
				log.Printf("[INFO] --run-now set, executing %s now", runNow)
				go func() {
					if _, err := sched.RunJob(runNow); err != nil {
						log.Printf("[ERROR] job %s: %v", runNow, err)
					}
				}()
			}

			log.Println("[INFO] scheduler is running. Press Ctrl+C to stop.")
			<-ctx.Done()
			log.Println("[INFO] shutdown signal received, stopping...")
			return nil
		},
	}
	cmd.Flags().StringVar(&runNow, "run-now", "", "run the named job once at startup")
	return cmd
}
