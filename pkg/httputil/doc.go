// Package httputil provides the HTTP client the resource resolver fetches
// images with.
//
// # Overview
//
//   - [Client]: GET with response caching and observability hooks
//   - [Retry]: optional retry with exponential backoff
//
// # Caching
//
// [Client] stores response bodies together with their Content-Type in a
// [cache.Cache]. Any backend works; the CLI uses a file cache under
// ~/.cache/boardexport/ and the server uses Redis:
//
//	c := httputil.NewClient(
//	    httputil.WithCache(fileCache, 24*time.Hour),
//	    httputil.WithTimeout(10*time.Second),
//	)
//	resp, err := c.Get(ctx, "https://example.org/symbols/eat.png")
//
// # Retry
//
// Exports never retry by default: a failed image fetch degrades to the
// placeholder image. [WithRetries] enables [Retry] for transient failures
// (network errors and 5xx responses) when a deployment prefers slower
// exports over placeholders.
//
// # Errors
//
// Errors are [errors.Error] values: NOT_FOUND for 404 and 410 responses,
// NETWORK_ERROR for everything else.
package httputil
