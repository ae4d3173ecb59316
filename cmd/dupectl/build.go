package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pureskin/dupefinder/config"
	"github.com/pureskin/dupefinder/internal/infrastructure/catalog"
	"github.com/pureskin/dupefinder/internal/infrastructure/snapshot"
	"github.com/pureskin/dupefinder/internal/usecase"
)

var (
	buildCSVPath      string
	buildSnapshotPath string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the product index and write the snapshot",
	Long: `Loads the catalog CSV, embeds every ingredient list with the configured
provider and writes the snapshot the server restores at startup.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildCSVPath, "csv", "", "catalog CSV path (default from config)")
	buildCmd.Flags().StringVar(&buildSnapshotPath, "snapshot", "", "snapshot database path (default from config)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if buildCSVPath != "" {
		cfg.Catalog.CSVPath = buildCSVPath
	}
	if buildSnapshotPath != "" {
		cfg.Catalog.SnapshotPath = buildSnapshotPath
	}

	logger := cliLogger()
	provider := newProvider(cfg, logger)
	ctx := context.Background()

	source := catalog.NewCSVSource(cfg.Catalog.CSVPath, logger)
	products, err := source.LoadProducts(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	cmd.Printf("Loaded %d products from %s\n", len(products), cfg.Catalog.CSVPath)

	builder := usecase.NewIndexBuilder(provider, logger)
	start := time.Now()
	index, err := builder.Build(ctx, products)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	cmd.Printf("Embedded %d products with %s in %s\n",
		index.Len(), index.ModelTag, time.Since(start).Round(time.Millisecond))

	store, err := snapshot.NewStore(cfg.Catalog.SnapshotPath, cfg.Embedding.Model, logger)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	if err := store.Save(ctx, index); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	cmd.Printf("Snapshot written to %s\n", cfg.Catalog.SnapshotPath)

	return nil
}
