package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/boardexport/pkg/buildinfo"
	"github.com/matzehuels/boardexport/pkg/cache"
	"github.com/matzehuels/boardexport/pkg/errors"
	"github.com/matzehuels/boardexport/pkg/observability"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// MaxBodySize caps the size of a fetched body.
const MaxBodySize = 20 << 20

// Response is a fetched body and its media type.
type Response struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

// Client issues GET requests for board resources.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	ttl       time.Duration
	retries   int
	delay     time.Duration
	userAgent string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithCache stores successful responses in store for ttl.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		if store != nil {
			c.cache = store
			c.ttl = ttl
		}
	}
}

// WithKeyer sets the cache key scheme.
func WithKeyer(k cache.Keyer) Option {
	return func(c *Client) {
		if k != nil {
			c.keyer = k
		}
	}
}

// WithRetries retries transient failures n more times, starting at delay.
// A non-positive delay keeps the default of one second.
func WithRetries(n int, delay time.Duration) Option {
	return func(c *Client) {
		c.retries = max(n, 0)
		if delay > 0 {
			c.delay = delay
		}
	}
}

// NewClient returns a client with no cache and no retries.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		cache:     cache.NewNullCache(),
		keyer:     cache.NewDefaultKeyer(),
		delay:     time.Second,
		userAgent: "boardexport/" + buildinfo.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches rawURL, consulting the cache first.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	key := c.keyer.FetchKey(rawURL)
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		var resp Response
		if json.Unmarshal(data, &resp) == nil {
			observability.Cache().OnCacheHit(ctx, "fetch")
			return &resp, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "fetch")

	var resp *Response
	err := Retry(ctx, c.retries+1, c.delay, func() error {
		var err error
		resp, err = c.do(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "fetch", len(resp.Body))
		}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, rawURL string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "invalid url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	res, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)}
	}
	defer res.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, res.StatusCode, time.Since(start))

	switch {
	case res.StatusCode == http.StatusNotFound || res.StatusCode == http.StatusGone:
		return nil, errors.New(errors.ErrCodeNotFound, "fetch %s: %s", rawURL, res.Status)
	case res.StatusCode >= 500:
		return nil, &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "fetch %s: %s", rawURL, res.Status)}
	case res.StatusCode >= 300:
		return nil, errors.New(errors.ErrCodeNetwork, "fetch %s: %s", rawURL, res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, MaxBodySize+1))
	if err != nil {
		return nil, &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", rawURL)}
	}
	if len(body) > MaxBodySize {
		return nil, errors.New(errors.ErrCodeNetwork, "fetch %s: body exceeds %d bytes", rawURL, MaxBodySize)
	}
	return &Response{Body: body, ContentType: res.Header.Get("Content-Type")}, nil
}

// String describes the client configuration for debug logs.
func (c *Client) String() string {
	return fmt.Sprintf("httputil.Client{timeout=%s retries=%d}", c.http.Timeout, c.retries)
}
