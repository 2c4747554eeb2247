package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pinmap/pkg/errors"
	"github.com/matzehuels/pinmap/pkg/observability"
)

// Fetch defaults.
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
	DefaultTimeout  = 30 * time.Second

	// MaxAssetSize bounds a single download.
	MaxAssetSize = 64 << 20

	// MaxRetryAfter caps the wait a server can request with Retry-After.
	MaxRetryAfter = 10 * time.Second
)

// Fetcher downloads remote assets into a Store.
type Fetcher struct {
	Client   *http.Client
	Store    *Store
	Attempts int
	Delay    time.Duration
	Logger   *log.Logger
}

// NewFetcher returns a fetcher with the default client and retry policy.
func NewFetcher(store *Store, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: DefaultTimeout},
		Store:    store,
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
		Logger:   logger,
	}
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Fetch returns a local path holding the asset at rawURL. A fresh stored
// copy is used as is; otherwise the asset is downloaded. When the download
// fails and a stale copy exists, the stale copy is returned.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	p, ok, fresh := f.Store.Lookup(rawURL)
	hooks := observability.Cache()
	if fresh {
		hooks.OnCacheHit(ctx, "asset")
		return p, nil
	}
	hooks.OnCacheMiss(ctx, "asset")

	err := Retry(ctx, f.Attempts, f.Delay, func() error {
		var err error
		p, err = f.download(ctx, rawURL)
		return err
	})
	if err == nil {
		if info, err := os.Stat(p); err == nil {
			hooks.OnCacheSet(ctx, "asset", int(info.Size()))
		}
		f.Logger.Debug("fetched asset", "url", rawURL, "path", p)
		return p, nil
	}
	if ok {
		f.Logger.Warn("using stale asset", "url", rawURL, "err", err)
		return f.Store.Path(rawURL), nil
	}
	return "", errors.Wrap(errors.ErrCodeFetch, err, "fetch %s", rawURL)
}

func (f *Fetcher) download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", Transient(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", &RetryableError{
			Err:   fmt.Errorf("status %d", resp.StatusCode),
			After: min(retryAfter(resp.Header), MaxRetryAfter),
		}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	return f.Store.Put(rawURL, io.LimitReader(resp.Body, MaxAssetSize))
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}
