package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/franzenjb/fourcolor/pkg/cache"
	"github.com/franzenjb/fourcolor/pkg/errors"
)

const (
	// DefaultTTL is how long fetched documents stay cached.
	DefaultTTL = time.Hour

	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	defaultDelay    = time.Second

	// maxBodyBytes caps a fetched document.
	maxBodyBytes = 16 << 20

	keyPrefix = "fetch:"
)

// Client downloads documents with caching and retry.
type Client struct {
	HTTP  *http.Client
	Cache cache.Cache
	TTL   time.Duration

	// Attempts and Delay configure [Retry].
	Attempts int
	Delay    time.Duration

	Headers map[string]string
}

// NewClient creates a client that caches responses in c. A nil cache
// disables caching.
func NewClient(c cache.Cache) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		HTTP:     &http.Client{Timeout: defaultTimeout},
		Cache:    c,
		TTL:      DefaultTTL,
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		Headers:  map[string]string{"Accept": "application/json"},
	}
}

// Fetch returns the body at url, from the cache unless refresh is set.
// Successful responses are cached; failures never are.
func (c *Client) Fetch(ctx context.Context, url string, refresh bool) ([]byte, error) {
	key := keyPrefix + url
	if !refresh {
		if data, hit, err := c.Cache.Get(ctx, key); err == nil && hit {
			return data, nil
		}
	}

	var body []byte
	err := errors.Retry(ctx, c.Attempts, c.Delay, func() error {
		var err error
		body, err = c.get(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = c.Cache.Set(ctx, key, body, c.TTL)
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad url %q", url)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Transient(fmt.Errorf("get %s: %w", url, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Transient(fmt.Errorf("read %s: %w", url, err))
	}
	return data, nil
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: not found", url)
	case code == http.StatusTooManyRequests, code >= 500:
		return errors.Transient(fmt.Errorf("get %s: status %d", url, code))
	default:
		return fmt.Errorf("get %s: status %d", url, code)
	}
}
