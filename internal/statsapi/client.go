// Package statsapi fetches raw player-season stats from the upstream
// stats provider. It owns rate limiting, retries, circuit breaking and
// payload caching; the pipeline downstream never retries.
package statsapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/KrishalDhungana/NBAMind/internal"
	"github.com/KrishalDhungana/NBAMind/internal/contract"
)

// Request pacing and retry policy. The provider throttles aggressively,
// so requests keep a minimum spacing and back off exponentially with
// jitter on failure.
const (
	defaultBaseURL   = "https://stats.nba.com/stats"
	requestTimeout   = 15 * time.Second
	minInterval      = 1200 * time.Millisecond
	maxAttempts      = 5
	baseBackoff      = 2 * time.Second
	maxBackoffJitter = time.Second
)

// Client is a rate-limited, caching stats provider client.
type Client struct {
	baseURL string
	http    *http.Client
	store   contract.CacheStore
	breaker *gobreaker.CircuitBreaker

	mu       sync.Mutex
	lastCall time.Time

	rng *rand.Rand
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint, used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient builds a client backed by the given payload cache.
func NewClient(store contract.CacheStore, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
		store:   store,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "statsapi",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			internal.Log.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state change")
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetch returns the JSON payload for an endpoint, serving from cache
// when possible. Cache keys hash the endpoint plus the sorted params so
// identical requests always collide.
func (c *Client) fetch(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	key := cacheKey(endpoint, params)
	if c.store != nil {
		if payload, ok, err := c.store.Get(ctx, key); err != nil {
			internal.Log.WithError(err).Warn("Cache read failed, fetching fresh")
		} else if ok {
			internal.Log.WithField("endpoint", endpoint).Debug("Cache hit")
			return payload, nil
		}
	}

	payload, err := c.fetchWithRetry(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	if c.store != nil {
		if err := c.store.Set(ctx, key, payload); err != nil {
			internal.Log.WithError(err).Warn("Cache write failed")
		}
	}
	return payload, nil
}

// fetchWithRetry performs the rate-limited request with exponential
// backoff and jitter, behind the circuit breaker.
func (c *Client) fetchWithRetry(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.throttle()

		result, err := c.breaker.Execute(func() (any, error) {
			return c.doRequest(ctx, endpoint, params)
		})
		if err == nil {
			return result.([]byte), nil
		}
		lastErr = err
		if attempt == maxAttempts {
			break
		}

		backoff := baseBackoff*time.Duration(1<<(attempt-1)) +
			time.Duration(c.rng.Int63n(int64(maxBackoffJitter)))
		internal.Log.WithFields(map[string]any{
			"endpoint": endpoint,
			"attempt":  attempt,
			"backoff":  backoff.String(),
		}).WithError(err).Warn("Request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, fmt.Errorf("fetch %s failed after %d attempts: %w", endpoint, maxAttempts, lastErr)
}

// throttle enforces the minimum spacing between upstream requests.
func (c *Client) throttle() {
	c.mu.Lock()
	wait := minInterval - time.Since(c.lastCall)
	if wait > 0 {
		c.lastCall = time.Now().Add(wait)
	} else {
		c.lastCall = time.Now()
	}
	c.mu.Unlock()
	if wait > 0 {
		time.Sleep(wait)
	}
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// The provider rejects requests without browser-like headers.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	return io.ReadAll(resp.Body)
}

// cacheKey hashes the endpoint plus sorted params.
func cacheKey(endpoint string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	h.Write([]byte(endpoint))
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte(params[k]))
	}
	return hex.EncodeToString(h.Sum(nil))
}
