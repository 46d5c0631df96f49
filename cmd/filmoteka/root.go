package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pvondra/filmoteka/internal/config"
	"github.com/pvondra/filmoteka/internal/runner"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "filmoteka",
	Short: "Resolve popular titles into a streamable media catalog",
	Long: `filmoteka - personal media catalog builder

Resolves popular movies and TV shows against the Webshare.cz file
index, verifies candidates against TMDB metadata and maintains a
JSON catalog of streamable titles.

Run 'filmoteka scan' to sweep popular titles into the catalog.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Config file path")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("filmoteka {{.Version}}\n")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newRunner loads configuration and assembles the pipeline for one command
// invocation. The caller must Close the runner.
func newRunner() (*runner.Runner, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	return runner.New(cfg, logger)
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
