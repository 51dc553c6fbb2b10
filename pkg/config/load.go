package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file at the specified path,
// applies default values, applies environment variable overrides, and
// validates the result.
//
// Environment variables follow the naming convention VEREDITO_SECTION_FIELD
// (e.g. VEREDITO_SERVER_LISTEN_ADDRESS, VEREDITO_CLASSIFIER_API_KEY) and
// always take precedence over file-based configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Unparseable values are ignored in favour of the file value.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("VEREDITO_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if d, ok := envDuration("VEREDITO_SERVER_READ_TIMEOUT"); ok {
		cfg.Server.ReadTimeout = d
	}
	if d, ok := envDuration("VEREDITO_SERVER_WRITE_TIMEOUT"); ok {
		cfg.Server.WriteTimeout = d
	}
	if d, ok := envDuration("VEREDITO_SERVER_SHUTDOWN_TIMEOUT"); ok {
		cfg.Server.ShutdownTimeout = d
	}

	// Classifier overrides
	if val := os.Getenv("VEREDITO_CLASSIFIER_PROVIDER"); val != "" {
		cfg.Classifier.Provider = val
	}
	if val := os.Getenv("VEREDITO_CLASSIFIER_MODEL"); val != "" {
		cfg.Classifier.Model = val
	}
	if val := os.Getenv("VEREDITO_CLASSIFIER_API_KEY"); val != "" {
		cfg.Classifier.APIKey = val
	}
	if val := os.Getenv("VEREDITO_CLASSIFIER_BASE_URL"); val != "" {
		cfg.Classifier.BaseURL = val
	}
	if d, ok := envDuration("VEREDITO_CLASSIFIER_TIMEOUT"); ok {
		cfg.Classifier.Timeout = d
	}
	if i, ok := envInt("VEREDITO_CLASSIFIER_MAX_RETRIES"); ok {
		cfg.Classifier.MaxRetries = i
	}

	// Engine overrides
	if d, ok := envDuration("VEREDITO_ENGINE_CACHE_TTL"); ok {
		cfg.Engine.CacheTTL = d
	}
	if i, ok := envInt("VEREDITO_ENGINE_MAX_BATCH_SIZE"); ok {
		cfg.Engine.MaxBatchSize = i
	}
	if val := os.Getenv("VEREDITO_ENGINE_MIN_CONDEMNATION_VALUE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Engine.MinCondemnationValue = f
		}
	}

	// Store overrides
	if val := os.Getenv("VEREDITO_STORE_BACKEND"); val != "" {
		cfg.Store.Backend = val
	}
	if val := os.Getenv("VEREDITO_STORE_PATH"); val != "" {
		cfg.Store.Path = val
	}
	if i, ok := envInt("VEREDITO_STORE_RETENTION_DAYS"); ok {
		cfg.Store.RetentionDays = i
	}
	if val := os.Getenv("VEREDITO_STORE_PRUNE_SCHEDULE"); val != "" {
		cfg.Store.PruneSchedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("VEREDITO_TELEMETRY_LOG_LEVEL"); val != "" {
		cfg.Telemetry.LogLevel = val
	}
	if val := os.Getenv("VEREDITO_TELEMETRY_LOG_FORMAT"); val != "" {
		cfg.Telemetry.LogFormat = val
	}
}

func envDuration(key string) (time.Duration, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, false
	}
	return d, true
}

func envInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return i, true
}
