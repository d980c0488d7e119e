package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/msomdec/discount-pro/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "discount-pro",
	Short: "Coupon discovery web app",
	Long: `discount-pro serves the coupon catalog, per-browser login sessions
and saved coupon lists.

Examples:
  discount-pro serve
  discount-pro serve --config ./config/config.yaml
  discount-pro migrate`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: ./config.yaml or ./config/config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the process logger at
// the configured level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}

	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)
	return cfg, nil
}
