package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Classifier defaults
	DefaultClassifierProvider   = "anthropic"
	DefaultClassifierTimeout    = 30 * time.Second
	DefaultClassifierMaxRetries = 3
	DefaultClassifierMaxTokens  = 2000

	// Engine defaults
	DefaultCacheTTL             = 60 * time.Minute
	DefaultMaxBatchSize         = 50
	DefaultMinCondemnationValue = 1000.00

	// Store defaults
	DefaultStoreBackend = "memory"
	DefaultStorePath    = "data/veredito.db"

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "veredito"
)

// ApplyDefaults fills in default values for any zero-valued fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Classifier.Provider == "" {
		cfg.Classifier.Provider = DefaultClassifierProvider
	}
	if cfg.Classifier.Timeout == 0 {
		cfg.Classifier.Timeout = DefaultClassifierTimeout
	}
	if cfg.Classifier.MaxRetries == 0 {
		cfg.Classifier.MaxRetries = DefaultClassifierMaxRetries
	}
	if cfg.Classifier.MaxTokens == 0 {
		cfg.Classifier.MaxTokens = DefaultClassifierMaxTokens
	}

	if cfg.Engine.CacheTTL == 0 {
		cfg.Engine.CacheTTL = DefaultCacheTTL
	}
	if cfg.Engine.MaxBatchSize == 0 {
		cfg.Engine.MaxBatchSize = DefaultMaxBatchSize
	}
	if cfg.Engine.MinCondemnationValue == 0 {
		cfg.Engine.MinCondemnationValue = DefaultMinCondemnationValue
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}

	if cfg.Telemetry.LogLevel == "" {
		cfg.Telemetry.LogLevel = DefaultLogLevel
	}
	if cfg.Telemetry.LogFormat == "" {
		cfg.Telemetry.LogFormat = DefaultLogFormat
	}
	if cfg.Telemetry.MetricsNamespace == "" {
		cfg.Telemetry.MetricsNamespace = DefaultMetricsNamespace
	}
}

// Default returns a configuration populated entirely with default values.
// The classifier API key is left empty and must be provided by the caller.
func Default() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{MetricsEnabled: DefaultMetricsEnabled},
	}
	ApplyDefaults(cfg)
	return cfg
}
