package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"veredito-hq/veredito/pkg/classifier"
)

func testConfig(baseURL string) classifier.Config {
	return classifier.Config{
		Provider:  "openai",
		Model:     "gpt-4o",
		APIKey:    "test-key",
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
		MaxTokens: 1024,
	}
}

func TestClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Error("request does not select JSON mode")
		}

		json.NewEncoder(w).Encode(chatResponse{
			ID:    "chatcmpl-1",
			Model: "gpt-4o",
			Choices: []choice{
				{
					Index: 0,
					Message: chatMessage{
						Role:    "assistant",
						Content: `{"decision":"incomplete","rationale":"missing worksheet","citations":["POL-8"],"confidence":0.88}`,
					},
					FinishReason: "stop",
				},
			},
			Usage: usage{PromptTokens: 90, CompletionTokens: 40, TotalTokens: 130},
		})
	}))
	defer srv.Close()

	c, err := NewClassifier(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	verdict, err := c.Classify(context.Background(), "analyze this record")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if verdict.Decision != "incomplete" {
		t.Errorf("decision = %q, want incomplete", verdict.Decision)
	}
	if len(verdict.Citations) != 1 || verdict.Citations[0] != "POL-8" {
		t.Errorf("citations = %v, want [POL-8]", verdict.Citations)
	}
}

func TestClassifyNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{ID: "chatcmpl-1"})
	}))
	defer srv.Close()

	c, err := NewClassifier(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	_, err = c.Classify(context.Background(), "analyze this record")
	var parseErr *classifier.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestNewClassifierRequiresAPIKey(t *testing.T) {
	cfg := testConfig("")
	cfg.APIKey = ""

	_, err := NewClassifier(cfg)
	var cfgErr *classifier.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T", err)
	}
}
