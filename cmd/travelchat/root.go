package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"travelchat/internal/app"
	"travelchat/internal/config"
	"travelchat/internal/logging"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "travelchat",
	Short: "Travel assistant for Incredible India",
	Long: `travelchat answers travel questions about Indian destinations.
It retrieves matching destination documents, asks an Ollama chat model for a
reply and falls back to built-in answers whenever the model is unavailable.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default ./config.yaml or ~/.config/travelchat/config.yaml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newApp loads configuration and wires the application. adjust may tweak
// logging for commands that own the terminal.
var newApp = func(ctx context.Context, adjust func(*config.LoggingConfig)) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if adjust != nil {
		adjust(&cfg.Logging)
	}
	return app.New(ctx, cfg, logging.New(cfg.Logging))
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

// quietLogging keeps one-shot command output readable.
func quietLogging(l *config.LoggingConfig) {
	if l.Level == "" || l.Level == "info" || l.Level == "debug" || l.Level == "trace" {
		l.Level = "warn"
	}
}
