package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("listen address = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if cfg.Classifier.Provider != DefaultClassifierProvider {
		t.Errorf("provider = %q, want %q", cfg.Classifier.Provider, DefaultClassifierProvider)
	}
	if cfg.Engine.CacheTTL != DefaultCacheTTL {
		t.Errorf("cache TTL = %s, want %s", cfg.Engine.CacheTTL, DefaultCacheTTL)
	}
	if cfg.Engine.MaxBatchSize != DefaultMaxBatchSize {
		t.Errorf("max batch size = %d, want %d", cfg.Engine.MaxBatchSize, DefaultMaxBatchSize)
	}
	if cfg.Engine.MinCondemnationValue != DefaultMinCondemnationValue {
		t.Errorf("min condemnation value = %v, want %v",
			cfg.Engine.MinCondemnationValue, DefaultMinCondemnationValue)
	}
	if cfg.Store.Backend != DefaultStoreBackend {
		t.Errorf("store backend = %q, want %q", cfg.Store.Backend, DefaultStoreBackend)
	}
	if !cfg.Telemetry.MetricsEnabled {
		t.Error("metrics not enabled by default")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9090"
classifier:
  provider: openai
  model: gpt-4o
  timeout: 45s
engine:
  cache_ttl: 30m
  max_batch_size: 25
  min_condemnation_value: 5000.00
store:
  backend: sqlite
  path: /tmp/test.db
telemetry:
  log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Classifier.Provider != "openai" || cfg.Classifier.Model != "gpt-4o" {
		t.Errorf("classifier = %q/%q", cfg.Classifier.Provider, cfg.Classifier.Model)
	}
	if cfg.Classifier.Timeout != 45*time.Second {
		t.Errorf("timeout = %s, want 45s", cfg.Classifier.Timeout)
	}
	if cfg.Engine.CacheTTL != 30*time.Minute {
		t.Errorf("cache TTL = %s, want 30m", cfg.Engine.CacheTTL)
	}
	if cfg.Engine.MaxBatchSize != 25 {
		t.Errorf("max batch size = %d, want 25", cfg.Engine.MaxBatchSize)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != "/tmp/test.db" {
		t.Errorf("store = %q/%q", cfg.Store.Backend, cfg.Store.Path)
	}
	if cfg.Telemetry.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Telemetry.LogLevel)
	}

	// Unset fields fall back to defaults.
	if cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("read timeout = %s, want the default", cfg.Server.ReadTimeout)
	}
	if cfg.Telemetry.LogFormat != DefaultLogFormat {
		t.Errorf("log format = %q, want the default", cfg.Telemetry.LogFormat)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
classifier:
  provider: anthropic
  api_key: from-file
engine:
  max_batch_size: 10
`)

	t.Setenv("VEREDITO_CLASSIFIER_API_KEY", "from-env")
	t.Setenv("VEREDITO_ENGINE_MAX_BATCH_SIZE", "20")
	t.Setenv("VEREDITO_ENGINE_CACHE_TTL", "15m")
	t.Setenv("VEREDITO_TELEMETRY_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Classifier.APIKey != "from-env" {
		t.Errorf("api key = %q, want from-env", cfg.Classifier.APIKey)
	}
	if cfg.Engine.MaxBatchSize != 20 {
		t.Errorf("max batch size = %d, want 20", cfg.Engine.MaxBatchSize)
	}
	if cfg.Engine.CacheTTL != 15*time.Minute {
		t.Errorf("cache TTL = %s, want 15m", cfg.Engine.CacheTTL)
	}
	if cfg.Telemetry.LogLevel != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Telemetry.LogLevel)
	}
}

func TestLoadEnvOverrideUnparseableIgnored(t *testing.T) {
	path := writeConfigFile(t, `
engine:
  max_batch_size: 10
`)

	t.Setenv("VEREDITO_ENGINE_MAX_BATCH_SIZE", "lots")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.MaxBatchSize != 10 {
		t.Errorf("max batch size = %d, want the file value 10", cfg.Engine.MaxBatchSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(cfg *Config) {},
		},
		{
			name: "bad listen address",
			mutate: func(cfg *Config) {
				cfg.Server.ListenAddress = "no-port"
			},
			wantErr: "listen_address",
		},
		{
			name: "unknown classifier provider",
			mutate: func(cfg *Config) {
				cfg.Classifier.Provider = "palantir"
			},
			wantErr: "classifier.provider",
		},
		{
			name: "non-positive cache TTL",
			mutate: func(cfg *Config) {
				cfg.Engine.CacheTTL = -time.Minute
			},
			wantErr: "cache_ttl",
		},
		{
			name: "non-positive batch size",
			mutate: func(cfg *Config) {
				cfg.Engine.MaxBatchSize = 0
			},
			wantErr: "max_batch_size",
		},
		{
			name: "unknown store backend",
			mutate: func(cfg *Config) {
				cfg.Store.Backend = "postgres"
			},
			wantErr: "store.backend",
		},
		{
			name: "sqlite backend without path",
			mutate: func(cfg *Config) {
				cfg.Store.Backend = "sqlite"
				cfg.Store.Path = ""
			},
			wantErr: "store.path",
		},
		{
			name: "invalid prune schedule",
			mutate: func(cfg *Config) {
				cfg.Store.PruneSchedule = "whenever"
			},
			wantErr: "prune_schedule",
		},
		{
			name: "unknown log level",
			mutate: func(cfg *Config) {
				cfg.Telemetry.LogLevel = "loud"
			},
			wantErr: "log_level",
		},
		{
			name: "unknown log format",
			mutate: func(cfg *Config) {
				cfg.Telemetry.LogFormat = "xml"
			},
			wantErr: "log_format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}
