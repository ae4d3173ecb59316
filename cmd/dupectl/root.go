package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pureskin/dupefinder/config"
	"github.com/pureskin/dupefinder/internal/domain"
	"github.com/pureskin/dupefinder/internal/infrastructure/embedding"
)

var (
	verbose bool
	useMock bool
)

var rootCmd = &cobra.Command{
	Use:   "dupectl",
	Short: "Offline index tooling for the dupefinder backend",
	Long: `dupectl works on the product similarity index outside the API server:
build embeds the catalog and writes the snapshot the server restores at
startup, bench measures retrieval quality and latency over the catalog.

Configuration comes from the same config file and DUPEFINDER_* environment
variables the server reads; flags override individual paths.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use the offline embedding provider")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// cliLogger writes human-readable log lines to stderr so command output
// on stdout stays clean.
func cliLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// newProvider builds the embedding provider from config, honoring --mock
func newProvider(cfg *config.Config, logger zerolog.Logger) domain.EmbeddingProvider {
	if useMock || cfg.Embedding.Provider == "mock" {
		return embedding.NewMockProvider(cfg.Embedding.Model, cfg.Embedding.Dimension)
	}

	return embedding.NewClient(embedding.Config{
		BaseURL:           cfg.Embedding.BaseURL,
		APIKey:            cfg.Embedding.APIKey,
		Model:             cfg.Embedding.Model,
		Dimension:         cfg.Embedding.Dimension,
		BatchSize:         cfg.Embedding.BatchSize,
		Timeout:           cfg.Embedding.Timeout,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	}, logger)
}
