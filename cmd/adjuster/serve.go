package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"QuoteAdjuster/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

func newServeCmd(cfgPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the download form",
		RunE: func(c *cobra.Command, args []string) error {
			rt, err := loadRuntime(*cfgPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			if addr == "" {
				addr = rt.Config.Server.Addr
			}

			app := web.NewApp(web.NewHandler(rt.Collector, rt.Recorder))
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, app, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// runServer serves app on addr until ctx ends or the listener fails. A
// listener error is returned so the caller's deferred cleanup still runs.
func runServer(ctx context.Context, app *fiber.App, addr string) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", addr)
		serveErr <- app.Listen(addr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}
	log.Println("[INFO] shutdown signal received, stopping...")
	return app.ShutdownWithTimeout(5 * time.Second)
}
