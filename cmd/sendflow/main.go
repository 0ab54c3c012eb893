package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simaogato/sendflow/internal/adapter/repository/memory"
	"github.com/simaogato/sendflow/internal/config"
	"github.com/simaogato/sendflow/internal/domain"
	"github.com/simaogato/sendflow/internal/usecase/seeder"
	"github.com/simaogato/sendflow/pkg/logger"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "sendflow",
		Short:        "Sendflow - payment send flow engine",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().String("catalog", "", "Catalog YAML file (overrides CATALOG_FILE)")
	rootCmd.PersistentFlags().StringSlice("env-file", nil, "Env files to load before reading the environment")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the state every subcommand starts from
type app struct {
	cfg         *config.Config
	catalogRepo domain.CatalogRepository
	catalog     domain.Catalog
}

// bootstrap loads configuration, applies flag overrides and seeds the
// catalog. Logging is only initialized when withLogging is set.
func bootstrap(ctx context.Context, cmd *cobra.Command, withLogging bool) (*app, error) {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.CatalogFile = v
	}

	if withLogging {
		if err := logger.Initialize(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	catalogRepo := memory.NewCatalogRepository(domain.Catalog{})
	cat, err := seeder.NewCatalogSeeder(catalogRepo).Seed(ctx, cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}

	return &app{cfg: cfg, catalogRepo: catalogRepo, catalog: cat}, nil
}
