// Package httputil fetches remote map assets over HTTP.
//
// # Overview
//
// Map definitions may reference their background image and image icons by
// URL. Layout and rasterization need the bytes on disk, so remote assets
// are downloaded once and kept in a local store:
//
//   - [Store]: file-based asset storage keyed by URL, with a TTL
//   - [Fetcher]: downloads into a Store, reusing fresh entries
//   - [Retry]: automatic retry with exponential backoff
//
// # Caching
//
// [Store] keeps one file per URL under the pinmap cache directory
// (~/.cache/pinmap/assets/). A file older than the TTL is re-downloaded;
// if the download fails the stale copy is used and a warning logged.
//
// # Retry
//
// [Fetcher] retries transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Other 4xx responses fail immediately.
//
// Usage:
//
//	store, _ := httputil.NewStore(dir, 24*time.Hour)
//	f := httputil.NewFetcher(store, logger)
//	path, err := f.Fetch(ctx, "https://example.com/harbor.png")
package httputil
