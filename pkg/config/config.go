package config

import "time"

// Config is the root configuration structure for Veredito.
// It contains all configuration sections for the API server, the external
// classifier, the decision engine, the result store, and telemetry.
type Config struct {
	// Server contains HTTP API server configuration including listen
	// address and timeouts.
	Server ServerConfig `yaml:"server"`

	// Classifier contains configuration for the external natural-language
	// classifier consulted for non-conclusive verifications.
	Classifier ClassifierConfig `yaml:"classifier"`

	// Engine contains configuration for the decision engine: cache TTL,
	// batch bounds and policy thresholds.
	Engine EngineConfig `yaml:"engine"`

	// Store contains configuration for the verification result store.
	Store StoreConfig `yaml:"store"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. Default: 60s (verifications may block on the classifier).
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout. Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ClassifierConfig contains configuration for the external classifier.
type ClassifierConfig struct {
	// Provider selects the classifier adapter ("anthropic", "openai").
	// Default: "anthropic"
	Provider string `yaml:"provider"`

	// Model is the provider model identifier.
	Model string `yaml:"model"`

	// APIKey is the provider API key. Prefer setting this via the
	// VEREDITO_CLASSIFIER_API_KEY environment variable.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Empty means the provider default.
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-call request timeout. A call exceeding it fails
	// as classifier-unavailable. Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries for transient (5xx, network)
	// failures. Auth and rate-limit failures are never retried.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// MaxTokens caps the classifier completion length. Default: 2000
	MaxTokens int `yaml:"max_tokens"`
}

// EngineConfig contains configuration for the decision engine.
type EngineConfig struct {
	// CacheTTL is the time-to-live of cached classifier decisions.
	// Entries older than this are treated as absent on read.
	// Default: 60m
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// MaxBatchSize bounds the number of records accepted in a single
	// batch verification. Default: 50
	MaxBatchSize int `yaml:"max_batch_size"`

	// MinCondemnationValue is the minimum condemnation value a process
	// must carry to be eligible, in currency units. Default: 1000.00
	MinCondemnationValue float64 `yaml:"min_condemnation_value"`
}

// StoreConfig contains configuration for the verification result store.
type StoreConfig struct {
	// Backend selects the storage backend ("memory", "sqlite").
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Path is the database file path for the sqlite backend.
	// Default: "data/veredito.db"
	Path string `yaml:"path"`

	// RetentionDays is how long verification results are kept before the
	// scheduled pruner removes them. Zero keeps results forever.
	// Default: 0
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is the cron expression for scheduled pruning
	// (e.g. "0 3 * * *" for daily at 3 AM). Empty disables the scheduler.
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains configuration for logging and metrics.
type TelemetryConfig struct {
	// LogLevel is the minimum log level ("debug", "info", "warn",
	// "error"). Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is the log output format ("json", "text").
	// Default: "json"
	LogFormat string `yaml:"log_format"`

	// MetricsEnabled exposes prometheus metrics on /metrics.
	// Default: true
	MetricsEnabled bool `yaml:"metrics_enabled"`

	// MetricsNamespace is the prometheus metric namespace.
	// Default: "veredito"
	MetricsNamespace string `yaml:"metrics_namespace"`
}
