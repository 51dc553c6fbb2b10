package classifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestHTTPClassifier(maxRetries int) *HTTPClassifier {
	return NewHTTPClassifier(Config{
		Provider:   "test",
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
	})
}

func TestDoRequestSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Test"); got != "yes" {
			t.Errorf("X-Test header = %q, want yes", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestHTTPClassifier(0)
	defer c.Close()

	resp, err := c.DoRequest(context.Background(), http.MethodPost, srv.URL,
		[]byte(`{}`), map[string]string{"X-Test": "yes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestDoRequestAuthError(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte("invalid api key"))
		}))

		c := newTestHTTPClassifier(3)
		_, err := c.DoRequest(context.Background(), http.MethodPost, srv.URL, nil, nil)

		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Errorf("status %d: expected *AuthError, got %T", status, err)
		} else if authErr.Provider != "test" {
			t.Errorf("provider = %q, want test", authErr.Provider)
		}

		c.Close()
		srv.Close()
	}
}

func TestDoRequestRateLimitError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "42")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestHTTPClassifier(3)
	defer c.Close()

	_, err := c.DoRequest(context.Background(), http.MethodPost, srv.URL, nil, nil)

	var rateLimitErr *RateLimitError
	if !errors.As(err, &rateLimitErr) {
		t.Fatalf("expected *RateLimitError, got %T", err)
	}
	if rateLimitErr.RetryAfter != 42*time.Second {
		t.Errorf("RetryAfter = %s, want 42s", rateLimitErr.RetryAfter)
	}
	// Rate limits are never retried within a call.
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestDoRequestBadRequestNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("malformed request"))
	}))
	defer srv.Close()

	c := newTestHTTPClassifier(3)
	defer c.Close()

	_, err := c.DoRequest(context.Background(), http.MethodPost, srv.URL, nil, nil)

	var clsErr *ClassifierError
	if !errors.As(err, &clsErr) {
		t.Fatalf("expected *ClassifierError, got %T", err)
	}
	if clsErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", clsErr.StatusCode)
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestDoRequestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestHTTPClassifier(2)
	defer c.Close()

	resp, err := c.DoRequest(context.Background(), http.MethodPost, srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestDoRequestServerErrorExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestHTTPClassifier(1)
	defer c.Close()

	_, err := c.DoRequest(context.Background(), http.MethodPost, srv.URL, nil, nil)

	var clsErr *ClassifierError
	if !errors.As(err, &clsErr) {
		t.Fatalf("expected *ClassifierError, got %T", err)
	}
	if clsErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", clsErr.StatusCode)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2 (initial + 1 retry)", calls.Load())
	}
}

func TestDoRequestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestHTTPClassifier(0)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.DoRequest(ctx, http.MethodPost, srv.URL, nil, nil)

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected *TimeoutError, got %T", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"", 0},
		{"30", 30 * time.Second},
		{"0", 0},
		{"not-a-number-or-date", 0},
	}

	for _, tt := range tests {
		if got := parseRetryAfter(tt.header); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %s, want %s", tt.header, got, tt.want)
		}
	}
}

func TestDoJSONRequestDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		w.Write([]byte(`{"value":"pong"}`))
	}))
	defer srv.Close()

	c := newTestHTTPClassifier(0)
	defer c.Close()

	var out struct {
		Value string `json:"value"`
	}
	err := c.DoJSONRequest(context.Background(), http.MethodPost, srv.URL,
		map[string]string{"ping": "1"}, &out, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Value != "pong" {
		t.Errorf("value = %q, want pong", out.Value)
	}
}

func TestDoJSONRequestMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := newTestHTTPClassifier(0)
	defer c.Close()

	var out map[string]interface{}
	err := c.DoJSONRequest(context.Background(), http.MethodPost, srv.URL, nil, &out, nil)

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.RawResponse != "not json at all" {
		t.Errorf("raw response = %q", parseErr.RawResponse)
	}
}
