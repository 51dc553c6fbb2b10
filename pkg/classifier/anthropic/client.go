package anthropic

import (
	"context"
	"fmt"
	"log/slog"

	"veredito-hq/veredito/pkg/classifier"
)

const (
	// DefaultVersion is the Anthropic API version to use.
	DefaultVersion = "2023-06-01"

	// DefaultBaseURL is the Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"
)

func init() {
	classifier.Register("anthropic", func(cfg classifier.Config) (classifier.Classifier, error) {
		return NewClassifier(cfg)
	})
}

// Classifier is the Anthropic classifier adapter.
// It implements the classifier.Classifier interface over the Messages API.
type Classifier struct {
	*classifier.HTTPClassifier
}

// NewClassifier creates a new Anthropic classifier adapter.
func NewClassifier(cfg classifier.Config) (*Classifier, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKey == "" {
		return nil, &classifier.ConfigError{
			Provider: "anthropic",
			Field:    "api_key",
			Message:  "API key is required for Anthropic",
		}
	}
	if cfg.Model == "" {
		return nil, &classifier.ConfigError{
			Provider: "anthropic",
			Field:    "model",
			Message:  "model is required",
		}
	}

	c := &Classifier{
		HTTPClassifier: classifier.NewHTTPClassifier(cfg),
	}

	slog.Info("anthropic classifier initialized",
		"model", cfg.Model,
		"base_url", cfg.BaseURL,
	)

	return c, nil
}

// Classify sends the rendered prompt to Anthropic and parses the verdict.
func (c *Classifier) Classify(ctx context.Context, prompt string) (*classifier.Verdict, error) {
	if prompt == "" {
		return nil, &classifier.ValidationError{
			Field:   "prompt",
			Message: "prompt cannot be empty",
		}
	}

	cfg := c.GetConfig()
	req := &messagesRequest{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		// Low temperature: classification, not generation.
		Temperature: 0.1,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	}

	url := fmt.Sprintf("%s/v1/messages", cfg.BaseURL)
	headers := map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": DefaultVersion,
		"Content-Type":      "application/json",
	}

	var resp messagesResponse
	if err := c.DoJSONRequest(ctx, "POST", url, req, &resp, headers); err != nil {
		return nil, err
	}

	raw, err := extractText(&resp)
	if err != nil {
		return nil, &classifier.ParseError{
			Provider: c.Name(),
			Cause:    err,
		}
	}

	verdict, err := classifier.ParseVerdict(c.Name(), raw)
	if err != nil {
		return nil, err
	}

	slog.Debug("classification succeeded",
		"provider", c.Name(),
		"model", resp.Model,
		"decision", verdict.Decision,
		"tokens", resp.Usage.InputTokens+resp.Usage.OutputTokens,
	)

	return verdict, nil
}
