package ingest

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Common errors
var (
	ErrFetchFailed = errors.New("fetch failed")
	ErrTooLarge    = errors.New("response too large")
)

// FetcherConfig configures the fetcher behavior.
type FetcherConfig struct {
	// HTTP client timeout
	Timeout time.Duration
	// Maximum response size in bytes
	MaxResponseSize int64
	// User-Agent header
	UserAgent string
	// CacheDir keeps successful responses on disk. Empty disables caching.
	CacheDir string
	// Maximum retry attempts after the first try
	MaxRetries int
	// RetryDelay is the delay before the first retry; it doubles after
	// every attempt.
	RetryDelay time.Duration

	// HTTPClient allows using a custom HTTP client.
	// If nil, a default client will be created with the specified Timeout.
	HTTPClient *http.Client

	// Logger receives retry and cache records. Nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns the default fetcher configuration.
func DefaultConfig() *FetcherConfig {
	return &FetcherConfig{
		Timeout:         30 * time.Second,
		MaxResponseSize: 4 * 1024 * 1024, // 4 MB
		UserAgent:       "labelguides-ingest/1.0",
		MaxRetries:      3,
		RetryDelay:      1 * time.Second,
	}
}

// Fetcher downloads vendor pages.
type Fetcher struct {
	config *FetcherConfig
	client *http.Client
	log    *slog.Logger
}

// NewFetcher creates a new fetcher.
func NewFetcher(config *FetcherConfig) *Fetcher {
	if config == nil {
		config = DefaultConfig()
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	log := config.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{config: config, client: client, log: log}
}

// statusError is an unexpected HTTP status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.code)
}

// retryable reports whether another attempt may succeed.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTooLarge) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return true
}

// CachePath returns the cache file of a URL.
func (f *Fetcher) CachePath(urlStr string) string {
	if f.config.CacheDir == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(urlStr))
	return filepath.Join(f.config.CacheDir, hex.EncodeToString(sum[:])+".html")
}

// Fetch fetches data from a URL.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) ([]byte, error) {
	cachePath := f.CachePath(urlStr)
	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			f.log.Debug("cache hit", "url", urlStr)
			return data, nil
		}
	}

	// Parse URL
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid URL: %v", ErrFetchFailed, err)
	}

	// Only allow HTTP and HTTPS
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme: %s", ErrFetchFailed, parsedURL.Scheme)
	}

	var lastErr error
	delay := f.config.RetryDelay
	for attempt := 0; attempt <= f.config.MaxRetries; attempt++ {
		if attempt > 0 {
			f.log.Debug("retrying fetch", "url", urlStr, "attempt", attempt, "delay", delay, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		data, err := f.doFetch(ctx, urlStr)
		if err == nil {
			if cachePath != "" {
				f.store(cachePath, data)
			}
			return data, nil
		}

		lastErr = err
		if !retryable(err) {
			break
		}
	}

	return nil, fmt.Errorf("%w: %s: %w", ErrFetchFailed, urlStr, lastErr)
}

func (f *Fetcher) store(path string, data []byte) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.log.Warn("cannot create cache directory", "error", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		f.log.Warn("cannot write cache entry", "error", err)
	}
}

func (f *Fetcher) doFetch(ctx context.Context, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	// Limit response size
	limit := f.config.MaxResponseSize
	if limit <= 0 {
		limit = DefaultConfig().MaxResponseSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}
