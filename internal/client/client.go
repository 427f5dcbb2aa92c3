// Package client talks to the catalog API. Responses are cached per URL: fresh
// entries are served without a request, stale entries are refetched and kept as a
// fallback until they are evicted.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/catalogd/catalogd/internal/catalog"
	"github.com/catalogd/catalogd/internal/logging"
	"github.com/catalogd/catalogd/internal/observability"
)

const (
	DefaultStaleTime  = 5 * time.Minute
	DefaultCacheTime  = 10 * time.Minute
	DefaultRetries    = 2
	DefaultRetryDelay = time.Second
	maxRetryDelay     = 30 * time.Second
	defaultCacheSize  = 256
	maxResponseBytes  = 8 << 20
)

var ErrNotFound = errors.New("catalog resource not found")

// APIError is an error envelope returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	StaleTime  time.Duration
	CacheTime  time.Duration
	CacheSize  int
	// Retries is the number of extra attempts after a failed request. Negative disables retries.
	Retries    int
	RetryDelay time.Duration
	Logger     *slog.Logger
}

type Client struct {
	baseURL    *url.URL
	http       *http.Client
	cache      *expirable.LRU[string, cacheEntry]
	inflight   singleflight.Group
	staleTime  time.Duration
	retries    int
	retryDelay time.Duration
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *slog.Logger
}

type cacheEntry struct {
	data      json.RawMessage
	fetchedAt time.Time
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Details any    `json:"details"`
	} `json:"error"`
}

func New(baseURL string, opts Options) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid catalog api url %q", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = observability.NewHTTPClient(opts.Timeout, parsed.Host)
	}
	staleTime := opts.StaleTime
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	cacheTime := opts.CacheTime
	if cacheTime <= 0 {
		cacheTime = DefaultCacheTime
	}
	if cacheTime < staleTime {
		return nil, fmt.Errorf("cache time %s must not be shorter than stale time %s", cacheTime, staleTime)
	}
	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	retries := opts.Retries
	switch {
	case retries == 0:
		retries = DefaultRetries
	case retries < 0:
		retries = 0
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	return &Client{
		baseURL:    parsed,
		http:       httpClient,
		cache:      expirable.NewLRU[string, cacheEntry](cacheSize, nil, cacheTime),
		staleTime:  staleTime,
		retries:    retries,
		retryDelay: retryDelay,
		now:        time.Now,
		sleep:      sleepContext,
		logger:     logging.OrDiscard(opts.Logger),
	}, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]catalog.ProductListItem, error) {
	var items []catalog.ProductListItem
	if err := c.get(ctx, "/api/products", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetProduct(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := c.get(ctx, "/api/products/"+url.PathEscape(slug), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductView asks the server to resolve sel against the product.
func (c *Client) GetProductView(ctx context.Context, slug string, sel catalog.Selection) (*catalog.ProductView, error) {
	var view catalog.ProductView
	if err := c.get(ctx, "/api/products/"+url.PathEscape(slug)+"/view", sel.Query(), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Invalidate drops every cached response.
func (c *Client) Invalidate() {
	c.cache.Purge()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	key := c.baseURL.String() + path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	cached, hasCached := c.cache.Get(key)
	if hasCached && c.now().Sub(cached.fetchedAt) < c.staleTime {
		return decodeData(cached.data, out)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// The shared fetch is detached from the caller that started it; each caller
	// stops waiting on its own ctx.
	fetchCtx := context.WithoutCancel(ctx)
	flight := c.inflight.DoChan(key, func() (any, error) {
		data, err := c.fetch(fetchCtx, key)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, cacheEntry{data: data, fetchedAt: c.now()})
		return data, nil
	})

	var result singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case result = <-flight:
	}
	if err := result.Err; err != nil {
		if hasCached && !errors.Is(err, ErrNotFound) {
			observability.Catalog(ctx).ClientStaleServed()
			logging.FromContext(ctx, c.logger).Warn("serving stale catalog response", "url", key, "error", err)
			return decodeData(cached.data, out)
		}
		return err
	}
	return decodeData(result.Val.(json.RawMessage), out)
}

func (c *Client) fetch(ctx context.Context, endpoint string) (json.RawMessage, error) {
	logger := logging.FromContext(ctx, c.logger)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			logger.Debug("retrying catalog request", "url", endpoint, "attempt", attempt, "delay", delay, "error", lastErr)
			observability.Catalog(ctx).ClientRetry(attempt)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		data, err := c.do(ctx, endpoint)
		if err == nil {
			return data, nil
		}
		if !retryable(ctx, err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("catalog request failed after %d attempts: %w", c.retries+1, lastErr)
}

func (c *Client) do(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode), Message: strings.TrimSpace(string(body))}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return nil, apiErr
	}
	return env.Data, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retryDelay << (attempt - 1)
	if delay <= 0 || delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}

// retryable reports whether err is a transport failure or a server error.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func decodeData(data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
