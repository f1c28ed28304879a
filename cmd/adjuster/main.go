package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	var cfgPath string
	rootCmd := &cobra.Command{
		Use:           "adjuster",
		Short:         "Download split/dividend adjusted daily prices",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "YAML config file")

	rootCmd.AddCommand(
		newServeCmd(&cfgPath),
		newExportCmd(&cfgPath),
		newScheduleCmd(&cfgPath),
		newHistoryCmd(&cfgPath),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
