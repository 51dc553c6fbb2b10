package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "veredito-hq/veredito/pkg/classifier/anthropic"
	_ "veredito-hq/veredito/pkg/classifier/openai"
	"veredito-hq/veredito/pkg/process"
	"veredito-hq/veredito/pkg/telemetry/logging"
	"veredito-hq/veredito/pkg/verify"
)

var verifyFlags struct {
	file string
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a record from a JSON file",
	Long: `Verify a single process record without starting the server.

The record is evaluated by the policy rule engine and, when the
configuration carries a classifier API key, by the classifier for
non-conclusive cases.

Examples:
  # Verify a record file
  veredito verify --file record.json`,
	RunE: verifyRecord,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&verifyFlags.file, "file", "f", "", "record JSON file (required)")
	verifyCmd.MarkFlagRequired("file")
}

func verifyRecord(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logLevel := cfg.Telemetry.LogLevel
	if !verbose {
		logLevel = "error"
	}
	logger, err := logging.Setup(logging.Config{
		Level:  logLevel,
		Format: "text",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	data, err := os.ReadFile(verifyFlags.file)
	if err != nil {
		return fmt.Errorf("failed to read record file: %w", err)
	}

	var record process.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("record file is not valid JSON: %w", err)
	}

	cls, err := newClassifier(cfg, logger)
	if err != nil {
		return err
	}
	if cls != nil {
		defer cls.Close()
	}

	verifier := verify.NewVerifier(verify.VerifierOptions{
		Evaluator:         verify.NewEvaluator(cfg.Engine.MinCondemnationValue),
		Classifier:        cls,
		Logger:            logger,
		ClassifierTimeout: cfg.Classifier.Timeout,
	})

	decision, _, err := verifier.Verify(cmd.Context(), &record)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(decision)
}
