package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "veredito",
	Short: "Veredito - decision engine for judicial process verification",
	Long: `Veredito classifies judicial process records as approved, rejected or
incomplete for acquisition.

A deterministic policy rule engine runs first; records it cannot decide
conclusively are resolved by an external LLM classifier, with verdicts
cached by record fingerprint. Decisions are persisted for analytics and
auditing.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
