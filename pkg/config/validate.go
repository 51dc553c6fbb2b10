package config

import (
	"fmt"
	"net"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns the first validation error encountered.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if _, _, err := net.SplitHostPort(cfg.Server.ListenAddress); err != nil {
		return fmt.Errorf("server.listen_address %q is not a valid host:port: %w",
			cfg.Server.ListenAddress, err)
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}

	switch cfg.Classifier.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("classifier.provider %q is not supported (want anthropic or openai)",
			cfg.Classifier.Provider)
	}
	if cfg.Classifier.Timeout <= 0 {
		return fmt.Errorf("classifier.timeout must be positive")
	}
	if cfg.Classifier.MaxRetries < 0 {
		return fmt.Errorf("classifier.max_retries must not be negative")
	}

	if cfg.Engine.CacheTTL <= 0 {
		return fmt.Errorf("engine.cache_ttl must be positive")
	}
	if cfg.Engine.MaxBatchSize <= 0 {
		return fmt.Errorf("engine.max_batch_size must be positive")
	}
	if cfg.Engine.MinCondemnationValue < 0 {
		return fmt.Errorf("engine.min_condemnation_value must not be negative")
	}

	switch cfg.Store.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.backend %q is not supported (want memory or sqlite)",
			cfg.Store.Backend)
	}
	if cfg.Store.Backend == "sqlite" && cfg.Store.Path == "" {
		return fmt.Errorf("store.path is required for the sqlite backend")
	}
	if cfg.Store.RetentionDays < 0 {
		return fmt.Errorf("store.retention_days must not be negative")
	}
	if cfg.Store.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Store.PruneSchedule); err != nil {
			return fmt.Errorf("store.prune_schedule %q is not a valid cron expression: %w",
				cfg.Store.PruneSchedule, err)
		}
	}

	switch cfg.Telemetry.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.log_level %q is not supported", cfg.Telemetry.LogLevel)
	}
	switch cfg.Telemetry.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.log_format %q is not supported", cfg.Telemetry.LogFormat)
	}

	return nil
}
