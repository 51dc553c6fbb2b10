package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"veredito-hq/veredito/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate the configuration file without starting the server.

Examples:
  # Validate the default config file
  veredito validate

  # Validate a specific file
  veredito validate --config /etc/veredito/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	fmt.Println("✓ Configuration valid")
	fmt.Printf("  listen_address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  classifier:     %s (%s)\n", cfg.Classifier.Provider, cfg.Classifier.Model)
	fmt.Printf("  store backend:  %s\n", cfg.Store.Backend)
	fmt.Printf("  cache TTL:      %s\n", cfg.Engine.CacheTTL)
	fmt.Printf("  max batch size: %d\n", cfg.Engine.MaxBatchSize)
	return nil
}
