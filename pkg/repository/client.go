package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/matzehuels/repograph/pkg/cache"
	"github.com/matzehuels/repograph/pkg/observability"
)

// Cache namespaces for fetched documents.
const (
	NamespaceListing    = "listing"
	NamespaceDescriptor = "descriptor"
)

// Options configures a [Client]. Zero values select defaults.
type Options struct {
	// Timeout bounds each fetch attempt.
	Timeout time.Duration
	// Retries is the total number of attempts for transient failures.
	Retries int
	// RetryDelay is the initial backoff, doubled after each attempt.
	RetryDelay time.Duration
	// RateLimit caps requests per second; 0 means unlimited.
	RateLimit float64
	// MemoSize is the number of documents held in memory; negative disables it.
	MemoSize int
	// UserAgent is sent with every request.
	UserAgent string
	// Cache persists documents across runs; nil disables persistence.
	Cache cache.Cache
	// Keyer derives cache keys; nil uses [cache.NewDefaultKeyer].
	Keyer cache.Keyer
	// HTTPClient overrides the transport client.
	HTTPClient *http.Client
	// Logger receives debug output; nil discards it.
	Logger *log.Logger
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Retries <= 0 {
		o.Retries = DefaultRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.MemoSize == 0 {
		o.MemoSize = DefaultMemoSize
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
	if o.Keyer == nil {
		o.Keyer = cache.NewDefaultKeyer()
	}
	if o.HTTPClient == nil {
		o.HTTPClient = NewHTTPClient()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Client fetches documents from a repository. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	memo    *lru.Cache[string, []byte]
	limiter *rate.Limiter
	opts    Options
	logger  *log.Logger
}

// NewClient creates a Client from opts.
func NewClient(opts Options) (*Client, error) {
	opts = opts.WithDefaults()

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	c := &Client{
		http:    opts.HTTPClient,
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		limiter: rate.NewLimiter(limit, 1),
		opts:    opts,
		logger:  opts.Logger,
	}
	if opts.MemoSize > 0 {
		memo, err := lru.New[string, []byte](opts.MemoSize)
		if err != nil {
			return nil, fmt.Errorf("memo cache: %w", err)
		}
		c.memo = memo
	}
	return c, nil
}

// Fetch returns the body of url. Successful responses are stored in the
// memo and the persistent cache under namespace. With refresh set, cached
// copies are ignored and overwritten.
func (c *Client) Fetch(ctx context.Context, namespace, url string, refresh bool) ([]byte, error) {
	key := c.keyer.HTTPKey(namespace, url)

	if !refresh {
		if data, ok := c.lookup(ctx, namespace, key); ok {
			return data, nil
		}
	}

	var body []byte
	err := cache.Retry(ctx, c.opts.Retries, c.opts.RetryDelay, func() error {
		var err error
		body, err = c.fetchOnce(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}

	if c.memo != nil {
		c.memo.Add(key, body)
	}
	if err := c.cache.Set(ctx, key, body, ttlFor(namespace)); err != nil {
		c.logger.Debug("cache write failed", "url", url, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, namespace, len(body))
	}
	return body, nil
}

// GetText is Fetch returning a string.
func (c *Client) GetText(ctx context.Context, namespace, url string) (string, error) {
	data, err := c.Fetch(ctx, namespace, url, false)
	return string(data), err
}

func (c *Client) lookup(ctx context.Context, namespace, key string) ([]byte, bool) {
	if c.memo != nil {
		if data, ok := c.memo.Get(key); ok {
			return data, true
		}
	}
	data, hit, err := c.cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, namespace)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, namespace)
	if c.memo != nil {
		c.memo.Add(key, data)
	}
	return data, true
}

func (c *Client) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, rawURL)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, rawURL, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, cache.Retryable(fmt.Errorf("%w: %s after %s", ErrTimeout, rawURL, c.opts.Timeout))
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, rawURL, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, rawURL); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, cache.Retryable(fmt.Errorf("%w: %s after %s", ErrTimeout, rawURL, c.opts.Timeout))
		}
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	return body, nil
}

func checkStatus(code int, rawURL string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	case code == http.StatusTooManyRequests || code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d: %s", ErrNetwork, code, rawURL))
	default:
		return fmt.Errorf("%w: status %d: %s", ErrNetwork, code, rawURL)
	}
}

func ttlFor(namespace string) time.Duration {
	if namespace == NamespaceListing {
		return cache.TTLListing
	}
	return cache.TTLDescriptor
}
