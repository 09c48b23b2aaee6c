package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFetcher(cacheDir string) *Fetcher {
	config := DefaultConfig()
	config.RetryDelay = time.Millisecond
	config.MaxRetries = 2
	config.CacheDir = cacheDir
	config.Logger = quietLogger()
	return NewFetcher(config)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", config.Timeout)
	}
	if config.UserAgent == "" {
		t.Error("UserAgent should not be empty")
	}
	if config.CacheDir != "" {
		t.Error("cache should be off by default")
	}
	if config.MaxRetries != 3 {
		t.Errorf("Expected 3 retries, got %d", config.MaxRetries)
	}
}

func TestNewFetcher(t *testing.T) {
	fetcher := NewFetcher(nil)
	if fetcher.config == nil || fetcher.client == nil || fetcher.log == nil {
		t.Fatal("NewFetcher left fields unset")
	}
	if fetcher.CachePath("https://example.com/") != "" {
		t.Error("CachePath should be empty without a cache directory")
	}
}

func TestFetchSuccess(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	data, err := testFetcher("").Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "<html></html>" {
		t.Errorf("unexpected body %q", data)
	}
	if agent != DefaultConfig().UserAgent {
		t.Errorf("User-Agent = %q", agent)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	data, err := testFetcher("").Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "ok" || hits.Load() != 3 {
		t.Errorf("got %q after %d requests", data, hits.Load())
	}
}

func TestFetchDoesNotRetryNotFound(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := testFetcher("").Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("error should name the status: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 request, got %d", hits.Load())
	}
}

func TestFetchUnsupportedScheme(t *testing.T) {
	for _, u := range []string{"ftp://example.com/list.php", "file:///etc/passwd"} {
		_, err := testFetcher("").Fetch(context.Background(), u)
		if !errors.Is(err, ErrFetchFailed) {
			t.Errorf("%s: expected ErrFetchFailed, got %v", u, err)
		}
	}
}

func TestFetchTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer server.Close()

	f := testFetcher("")
	f.config.MaxResponseSize = 10
	_, err := f.Fetch(context.Background(), server.URL)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestFetchContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := testFetcher("")
	f.config.RetryDelay = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, server.URL)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestFetchCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("cached body"))
	}))

	dir := t.TempDir()
	f := testFetcher(filepath.Join(dir, "pages"))
	if _, err := f.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	server.Close()

	data, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("cached Fetch failed: %v", err)
	}
	if string(data) != "cached body" || hits.Load() != 1 {
		t.Errorf("got %q after %d requests", data, hits.Load())
	}

	path := f.CachePath(server.URL)
	name := filepath.Base(path)
	if filepath.Dir(path) != filepath.Join(dir, "pages") || len(name) != 64+len(".html") {
		t.Errorf("unexpected cache path %s", path)
	}
	if f.CachePath(server.URL+"/other") == path {
		t.Error("different URLs share a cache entry")
	}
}
