package classifier

import (
	"context"
	"fmt"
	"time"
)

// Classifier is the capability all external classifier adapters implement.
// It turns a rendered policy+record prompt into a structured verification
// verdict. Implementations must respect context cancellation and return
// immediately when the context is cancelled.
type Classifier interface {
	// Classify sends the rendered prompt to the provider and returns its
	// structured verdict. Provider failures surface as the typed errors
	// in this package (AuthError, RateLimitError, TimeoutError,
	// ParseError, ClassifierError).
	Classify(ctx context.Context, prompt string) (*Verdict, error)

	// Name returns the provider name (e.g. "anthropic", "openai").
	// It is used for the classifier:<provider> provenance tag.
	Name() string

	// Close releases any resources held by the adapter (HTTP
	// connections). After Close, the classifier must not be used.
	Close() error
}

// Verdict is the provider-agnostic structured decision extracted from a
// classifier response.
type Verdict struct {
	// Decision is one of "approved", "rejected", "incomplete".
	Decision string `json:"decision"`

	// Rationale explains the decision.
	Rationale string `json:"rationale"`

	// Citations are the policy ids the classifier relied on.
	Citations []string `json:"citations"`

	// Confidence is the self-reported confidence in [0, 1].
	// Zero when the provider omits it.
	Confidence float64 `json:"confidence"`
}

// Config contains configuration for a classifier adapter.
type Config struct {
	// Provider selects the adapter ("anthropic", "openai").
	Provider string

	// Model is the provider model identifier.
	Model string

	// APIKey is the provider API key.
	APIKey string

	// BaseURL overrides the provider's default endpoint. Empty means
	// the provider default.
	BaseURL string

	// Timeout is the per-call request timeout.
	Timeout time.Duration

	// MaxRetries is the number of retries for transient failures.
	MaxRetries int

	// MaxTokens caps the completion length.
	MaxTokens int

	// MaxIdleConns is the HTTP connection pool size. Zero means the
	// adapter default.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the per-host pool size. Zero means the
	// adapter default.
	MaxIdleConnsPerHost int
}

// Factory creates a classifier adapter from configuration. Concrete
// adapters register themselves here so the composition root does not import
// every provider subpackage directly.
type Factory func(cfg Config) (Classifier, error)

var factories = map[string]Factory{}

// Register installs a factory for the given provider name. It is called
// from adapter package init functions.
func Register(provider string, f Factory) {
	factories[provider] = f
}

// New creates a classifier adapter for cfg.Provider.
func New(cfg Config) (Classifier, error) {
	f, ok := factories[cfg.Provider]
	if !ok {
		return nil, &ConfigError{
			Provider: cfg.Provider,
			Field:    "provider",
			Message:  fmt.Sprintf("unknown classifier provider %q", cfg.Provider),
		}
	}
	return f(cfg)
}
