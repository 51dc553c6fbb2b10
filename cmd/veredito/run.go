package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"veredito-hq/veredito/pkg/classifier"
	_ "veredito-hq/veredito/pkg/classifier/anthropic"
	_ "veredito-hq/veredito/pkg/classifier/openai"
	"veredito-hq/veredito/pkg/config"
	"veredito-hq/veredito/pkg/server"
	"veredito-hq/veredito/pkg/store"
	"veredito-hq/veredito/pkg/telemetry/logging"
	"veredito-hq/veredito/pkg/telemetry/metrics"
	"veredito-hq/veredito/pkg/verify"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the verification server",
	Long: `Start the verification server with the specified configuration.

The server exposes the verification API over HTTP, backed by the policy
rule engine, the result cache and the configured classifier provider.

Examples:
  # Start with default config
  veredito run

  # Start with custom config
  veredito run --config /etc/veredito/config.yaml

  # Override listen address
  veredito run --listen 0.0.0.0:8080

  # Validate config without starting server
  veredito run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.LogLevel = runFlags.logLevel
	}

	logger, err := logging.Setup(logging.Config{
		Level:  cfg.Telemetry.LogLevel,
		Format: cfg.Telemetry.LogFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var collector *metrics.Collector
	if cfg.Telemetry.MetricsEnabled {
		collector = metrics.NewCollector(cfg.Telemetry.MetricsNamespace, nil)
	}

	decisionStore, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer decisionStore.Close()

	retention := store.NewRetentionScheduler(decisionStore, store.RetentionConfig{
		RetentionDays: cfg.Store.RetentionDays,
		PruneSchedule: cfg.Store.PruneSchedule,
	})
	if err := retention.Start(ctx); err != nil {
		logger.Warn("failed to start retention scheduler", "error", err)
	} else {
		defer retention.Stop()
	}

	cls, err := newClassifier(cfg, logger)
	if err != nil {
		return err
	}
	if cls != nil {
		defer cls.Close()
	}

	var cacheMetrics *metrics.CacheMetrics
	if collector != nil {
		cacheMetrics = collector.Cache()
	}
	cache := verify.NewResultCache(cfg.Engine.CacheTTL, cacheMetrics)
	defer cache.Close()

	verifier := verify.NewVerifier(verify.VerifierOptions{
		Evaluator:         verify.NewEvaluator(cfg.Engine.MinCondemnationValue),
		Cache:             cache,
		Classifier:        cls,
		Store:             decisionStore,
		Metrics:           collector,
		Logger:            logger,
		ClassifierTimeout: cfg.Classifier.Timeout,
	})
	batch := verify.NewBatchCoordinator(verifier, cfg.Engine.MaxBatchSize, collector, logger)

	// Watch the config file so log level changes apply without a restart.
	if _, err := os.Stat(cfgFile); err == nil {
		watcher, err := config.NewWatcher(cfgFile, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else {
			defer watcher.Stop()
			go func() {
				err := watcher.Watch(ctx, func(next *config.Config) {
					if _, err := logging.Setup(logging.Config{
						Level:  next.Telemetry.LogLevel,
						Format: next.Telemetry.LogFormat,
					}); err != nil {
						logger.Warn("config reloaded with invalid logging settings", "error", err)
						return
					}
					logger.Info("configuration reloaded",
						"log_level", next.Telemetry.LogLevel,
					)
				})
				if err != nil {
					logger.Warn("config watcher stopped", "error", err)
				}
			}()
		}
	}

	srv := server.New(server.Options{
		Config:   cfg.Server,
		Verifier: verifier,
		Batch:    batch,
		Cache:    cache,
		Store:    decisionStore,
		Metrics:  collector,
		Logger:   logger,
	})

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if collector != nil {
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Server.ListenAddress)
	}

	return srv.Start(ctx)
}

// loadConfig loads the config file named by the --config flag. A missing
// file is not an error; defaults plus environment overrides apply.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		cfg := config.Default()
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid default config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newStore builds the configured decision store backend.
func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		return store.NewSQLiteStore(&store.SQLiteConfig{
			Path:         cfg.Store.Path,
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			WALMode:      true,
			BusyTimeout:  store.DefaultSQLiteConfig().BusyTimeout,
		})
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}

// newClassifier builds the configured classifier. Without an API key the
// engine runs on rules alone; non-conclusive records are approved by the
// rule evaluation, which is useful for local development.
func newClassifier(cfg *config.Config, logger *slog.Logger) (classifier.Classifier, error) {
	if cfg.Classifier.APIKey == "" {
		logger.Warn("no classifier API key configured, running on rules alone")
		return nil, nil
	}

	cls, err := classifier.New(classifier.Config{
		Provider:   cfg.Classifier.Provider,
		Model:      cfg.Classifier.Model,
		APIKey:     cfg.Classifier.APIKey,
		BaseURL:    cfg.Classifier.BaseURL,
		Timeout:    cfg.Classifier.Timeout,
		MaxRetries: cfg.Classifier.MaxRetries,
		MaxTokens:  cfg.Classifier.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	logger.Info("classifier initialized",
		"provider", cfg.Classifier.Provider,
		"model", cfg.Classifier.Model,
	)
	return cls, nil
}
