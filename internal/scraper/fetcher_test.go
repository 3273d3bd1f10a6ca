package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestFetch(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantError  bool
		wantStatus int
	}{
		{
			name:       "success",
			statusCode: http.StatusOK,
			body:       "<html><body>ok</body></html>",
		},
		{
			name:       "other 2xx",
			statusCode: http.StatusNonAuthoritativeInfo,
			body:       "partial",
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			body:       "page not found",
			wantError:  true,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			body:       "boom",
			wantError:  true,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("method = %s, want GET", r.Method)
				}
				if ua := r.Header.Get("User-Agent"); ua != UserAgent {
					t.Errorf("User-Agent = %q, want %q", ua, UserAgent)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			body, err := unlimitedFetcher().Fetch(context.Background(), server.URL)

			if !tt.wantError {
				if err != nil {
					t.Fatalf("Fetch() unexpected error: %v", err)
				}
				if body != tt.body {
					t.Errorf("Fetch() = %q, want %q", body, tt.body)
				}
				return
			}

			var ferr *FetchError
			if !errors.As(err, &ferr) {
				t.Fatalf("Fetch() error = %v, want *FetchError", err)
			}
			if ferr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", ferr.StatusCode, tt.wantStatus)
			}
			if ferr.Body != tt.body {
				t.Errorf("Body = %q, want %q", ferr.Body, tt.body)
			}
			if ferr.URL != server.URL {
				t.Errorf("URL = %q, want %q", ferr.URL, server.URL)
			}
			if !strings.Contains(err.Error(), "unexpected status code") {
				t.Errorf("Error() = %q, should mention status code", err.Error())
			}
		})
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := unlimitedFetcher().Fetch(context.Background(), url)

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("Fetch() error = %v, want *FetchError", err)
	}
	if ferr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", ferr.StatusCode)
	}
	if ferr.Unwrap() == nil {
		t.Error("FetchError should wrap the transport error")
	}
}

func TestFetch_InvalidURL(t *testing.T) {
	_, err := unlimitedFetcher().Fetch(context.Background(), "://bad")

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("Fetch() error = %v, want *FetchError", err)
	}
}

func TestFetch_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A limiter with no tokens left makes Wait observe the cancelled context.
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	limiter.Allow()

	_, err := NewFetcher(nil, limiter).Fetch(ctx, server.URL)
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("Fetch() error = %v, want *FetchError", err)
	}
}

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher(nil, nil)

	if f.client == nil {
		t.Fatal("fetcher client is nil")
	}
	if f.client.Timeout != Timeout {
		t.Errorf("client timeout = %v, want %v", f.client.Timeout, Timeout)
	}
	if f.limiter == nil {
		t.Fatal("fetcher limiter is nil")
	}
	if f.limiter.Limit() != rate.Every(RequestInterval) {
		t.Errorf("limiter limit = %v, want %v", f.limiter.Limit(), rate.Every(RequestInterval))
	}
}
