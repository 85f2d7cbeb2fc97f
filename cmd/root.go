package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leads-gateway",
	Short: "Gateway and CLI for the business-lead discovery backend",
	Long:  "Proxies the scraper backend behind a same-origin API, runs scrape workflows, and filters/exports the resulting lead lists.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
