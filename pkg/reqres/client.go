// Package reqres provides a client for the reqres-style customer listing API.
package reqres

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/customer-pipeline/internal/model"
	"github.com/sells-group/customer-pipeline/internal/resilience"
)

// Client defines the customer listing operations.
type Client interface {
	// FetchPage fetches a single page, retrying transient failures with
	// class-specific backoff. Returns *resilience.ExhaustedError once the
	// attempt budget is spent.
	FetchPage(ctx context.Context, page int) (*model.Page, error)
	// FetchAll fetches every page sequentially and returns the raw records
	// deduplicated by ID (first occurrence wins). Any unresolved page
	// failure aborts the whole fetch.
	FetchAll(ctx context.Context) ([]model.RawCustomer, error)
}

// Sleeper blocks for the given duration or until the context is done.
// Injected so tests can observe backoff waits without sleeping.
type Sleeper func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithMaxRetries sets the per-page retry budget. A page is attempted at
// most maxRetries+1 times.
func WithMaxRetries(n int) Option {
	return func(c *httpClient) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithPageRate sets the politeness throttle applied between page fetches.
func WithPageRate(r rate.Limit) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(r, 1)
	}
}

// WithSleeper replaces the backoff sleep (for testing).
func WithSleeper(s Sleeper) Option {
	return func(c *httpClient) {
		c.sleep = s
	}
}

type httpClient struct {
	baseURL    string
	apiKey     string
	maxRetries int
	http       *http.Client
	limiter    *rate.Limiter
	sleep      Sleeper
}

// NewClient creates a customer listing client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL:    "https://reqres.in",
		apiKey:     apiKey,
		maxRetries: 3,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		// 10 events/sec spaces successful page fetches ~100ms apart.
		limiter: rate.NewLimiter(10, 1),
		sleep:   defaultSleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getPage performs a single attempt against the listing endpoint.
func (c *httpClient) getPage(ctx context.Context, page int) (*model.Page, error) {
	reqURL := fmt.Sprintf("%s/api/users?page=%d", c.baseURL, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "reqres: create request")
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &resilience.HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if readErr != nil {
		return nil, eris.Wrap(readErr, "reqres: read response body")
	}

	var p model.Page
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, eris.Wrap(err, "reqres: decode page")
	}
	if p.TotalPages < 1 {
		return nil, eris.Errorf("reqres: page %d missing total_pages", page)
	}

	return &p, nil
}

func (c *httpClient) FetchPage(ctx context.Context, page int) (*model.Page, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		p, err := c.getPage(ctx, page)
		if err == nil {
			if attempt > 0 {
				zap.L().Info("reqres: page fetched after retries",
					zap.Int("page", page),
					zap.Int("attempt", attempt+1),
				)
			}
			return p, nil
		}
		lastErr = err

		class := resilience.Classify(err)
		if !class.Retryable() {
			zap.L().Error("reqres: client error, not retrying",
				zap.Int("page", page),
				zap.Error(err),
			)
			return nil, eris.Wrapf(err, "reqres: fetch page %d", page)
		}

		if attempt == c.maxRetries {
			break
		}

		wait := resilience.BackoffFor(class, attempt)
		zap.L().Warn("reqres: attempt failed, backing off",
			zap.Int("page", page),
			zap.Int("attempt", attempt+1),
			zap.Stringer("class", class),
			zap.Bool("transient", resilience.IsTransient(err)),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if err := c.sleep(ctx, wait); err != nil {
			return nil, eris.Wrapf(err, "reqres: backoff interrupted on page %d", page)
		}
	}

	return nil, &resilience.ExhaustedError{
		Page:     page,
		Attempts: c.maxRetries + 1,
		Last:     lastErr,
	}
}

func (c *httpClient) FetchAll(ctx context.Context) ([]model.RawCustomer, error) {
	var all []model.RawCustomer
	totalPages := 0

	for page := 1; totalPages == 0 || page <= totalPages; page++ {
		if page > 1 {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "reqres: page throttle")
			}
		}

		p, err := c.FetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		if totalPages == 0 {
			totalPages = p.TotalPages
			zap.L().Info("reqres: total pages discovered", zap.Int("total_pages", totalPages))
		}

		for _, rc := range p.Data {
			// Records without an identity cannot be deduplicated or
			// resolved downstream; skip them.
			if rc.ID == 0 {
				zap.L().Warn("reqres: skipping record without id", zap.Int("page", page))
				continue
			}
			all = append(all, rc)
		}

		zap.L().Info("reqres: page fetched",
			zap.Int("page", page),
			zap.Int("records", len(p.Data)),
		)
	}

	unique := dedupeByID(all)
	zap.L().Info("reqres: fetch complete",
		zap.Int("pages", totalPages),
		zap.Int("fetched", len(all)),
		zap.Int("unique", len(unique)),
	)
	return unique, nil
}

// dedupeByID keeps the first occurrence of each customer ID.
func dedupeByID(in []model.RawCustomer) []model.RawCustomer {
	seen := make(map[int]struct{}, len(in))
	out := make([]model.RawCustomer, 0, len(in))
	for _, c := range in {
		if _, ok := seen[c.ID]; ok {
			zap.L().Warn("reqres: duplicate customer id dropped", zap.Int("id", c.ID))
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
