package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// HTTPClassifier is the base implementation for HTTP-based classifier
// adapters. It provides connection pooling, retry logic and timeout
// handling. Concrete adapters (Anthropic, OpenAI) embed this struct.
type HTTPClassifier struct {
	// config contains the adapter configuration
	config Config

	// client is the HTTP client with connection pooling
	client *http.Client
}

// NewHTTPClassifier creates a new base HTTP classifier with connection
// pooling.
func NewHTTPClassifier(config Config) *HTTPClassifier {
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClassifier{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// Name returns the configured provider name.
func (c *HTTPClassifier) Name() string {
	return c.config.Provider
}

// GetConfig returns the adapter configuration.
func (c *HTTPClassifier) GetConfig() Config {
	return c.config
}

// DoRequest performs an HTTP request with retry logic and timeout handling.
// Transient failures (5xx, network errors) are retried with exponential
// backoff; authentication and rate-limit failures are returned immediately
// as their typed errors.
func (c *HTTPClassifier) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			slog.Debug("retrying classifier request",
				"provider", c.config.Provider,
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff,
			)

			select {
			case <-ctx.Done():
				return nil, &TimeoutError{
					Provider: c.config.Provider,
					Timeout:  c.config.Timeout,
				}
			case <-time.After(backoff):
			}
		}

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		for key, value := range headers {
			req.Header.Set(key, value)
		}
		if req.Header.Get("Content-Type") == "" && body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err

			// Context cancellation or client timeout is a variant of
			// unavailability, never retried within this call.
			if ctx.Err() != nil {
				return nil, &TimeoutError{
					Provider: c.config.Provider,
					Timeout:  c.config.Timeout,
				}
			}

			slog.Warn("classifier request failed, will retry",
				"provider", c.config.Provider,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		errorBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, &AuthError{
				Provider: c.config.Provider,
				Message:  string(errorBody),
			}

		case http.StatusTooManyRequests:
			return nil, &RateLimitError{
				Provider:   c.config.Provider,
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
				Message:    string(errorBody),
			}

		case http.StatusBadRequest:
			return nil, &ClassifierError{
				Provider:   c.config.Provider,
				StatusCode: resp.StatusCode,
				Message:    string(errorBody),
			}

		default:
			lastErr = &ClassifierError{
				Provider:   c.config.Provider,
				StatusCode: resp.StatusCode,
				Message:    string(errorBody),
			}

			slog.Warn("classifier returned error status, will retry",
				"provider", c.config.Provider,
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
		}
	}

	return nil, lastErr
}

// DoJSONRequest performs a JSON request and decodes the response body.
func (c *HTTPClassifier) DoJSONRequest(ctx context.Context, method, url string, reqBody interface{}, respBody interface{}, headers map[string]string) error {
	var bodyBytes []byte
	var err error
	if reqBody != nil {
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := c.DoRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ParseError{
			Provider: c.config.Provider,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &ParseError{
				Provider:    c.config.Provider,
				RawResponse: string(responseBytes),
				Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return nil
}

// Close closes idle HTTP connections.
func (c *HTTPClassifier) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
