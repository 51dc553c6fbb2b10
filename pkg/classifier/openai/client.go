package openai

import (
	"context"
	"fmt"
	"log/slog"

	"veredito-hq/veredito/pkg/classifier"
)

// DefaultBaseURL is the OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

func init() {
	classifier.Register("openai", func(cfg classifier.Config) (classifier.Classifier, error) {
		return NewClassifier(cfg)
	})
}

// Classifier is the OpenAI classifier adapter.
// It implements the classifier.Classifier interface over the Chat
// Completions API.
type Classifier struct {
	*classifier.HTTPClassifier
}

// NewClassifier creates a new OpenAI classifier adapter.
func NewClassifier(cfg classifier.Config) (*Classifier, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKey == "" {
		return nil, &classifier.ConfigError{
			Provider: "openai",
			Field:    "api_key",
			Message:  "API key is required for OpenAI",
		}
	}
	if cfg.Model == "" {
		return nil, &classifier.ConfigError{
			Provider: "openai",
			Field:    "model",
			Message:  "model is required",
		}
	}

	c := &Classifier{
		HTTPClassifier: classifier.NewHTTPClassifier(cfg),
	}

	slog.Info("openai classifier initialized",
		"model", cfg.Model,
		"base_url", cfg.BaseURL,
	)

	return c, nil
}

// Classify sends the rendered prompt to OpenAI and parses the verdict.
func (c *Classifier) Classify(ctx context.Context, prompt string) (*classifier.Verdict, error) {
	if prompt == "" {
		return nil, &classifier.ValidationError{
			Field:   "prompt",
			Message: "prompt cannot be empty",
		}
	}

	cfg := c.GetConfig()
	req := &chatRequest{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: 0.1,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		// JSON mode keeps the model from wrapping the verdict in prose.
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	url := fmt.Sprintf("%s/chat/completions", cfg.BaseURL)
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
		"Content-Type":  "application/json",
	}

	var resp chatResponse
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
		"tokens", resp.Usage.TotalTokens,
	)

	return verdict, nil
}
