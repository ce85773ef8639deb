package main

import (
	"fmt"
	"os"

	"github.com/example/buttg/pkg/config"
	"github.com/example/buttg/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "storefront",
	Short:        "Butt G Fast Foods ordering backend",
	Long:         `storefront serves the Butt G Fast Foods menu, keeps customer carts and turns checkouts into emailed orders.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); environment variables are used when empty")

	rootCmd.AddCommand(serveCmd, catalogCmd, ordersCmd)
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
