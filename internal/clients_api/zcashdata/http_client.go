package zcashdata

// Base HTTP client for the public Zcash data documents. Transport layer
// only: rate limiting, circuit breaking and retries live here, parsing
// lives in the sibling files.

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	logging "zpool-charts/internal/infra/log"
	"zpool-charts/internal/infra/retry"
)

// DefaultSupplyURL is the fixed public document the chart is built from.
const DefaultSupplyURL = "https://z.cash/data/shielded-supply.json"

// DefaultBalancesURL serves the per-pool balance snapshot.
const DefaultBalancesURL = "https://z.cash/data/pool-balances.json"

type Options struct {
	SupplyURL       string
	BalancesURL     string
	RequestTimeout  time.Duration
	MaxRetries      int
	MaxResponseSize int64
}

type Client struct {
	supplyURL       string
	balancesURL     string
	httpClient      *http.Client
	rateLimiter     *rate.Limiter
	circuitBreaker  *gobreaker.CircuitBreaker
	retryOpts       retry.Options
	maxResponseSize int64
}

func NewClient(opts Options) *Client {
	if opts.SupplyURL == "" {
		opts.SupplyURL = DefaultSupplyURL
	}
	if opts.BalancesURL == "" {
		opts.BalancesURL = DefaultBalancesURL
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.MaxResponseSize <= 0 {
		opts.MaxResponseSize = 10 * 1024 * 1024
	}

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ZcashDataAPI",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		supplyURL:       opts.SupplyURL,
		balancesURL:     opts.BalancesURL,
		rateLimiter:     rate.NewLimiter(rate.Limit(10), 20),
		circuitBreaker:  circuitBreaker,
		maxResponseSize: opts.MaxResponseSize,
		retryOpts: retry.Options{
			MaxRetries: opts.MaxRetries,
			BaseDelay:  300 * time.Millisecond,
			MaxDelay:   5 * time.Second,
		},
		httpClient: &http.Client{
			Timeout: opts.RequestTimeout,
			Transport: &http.Transport{
				DisableKeepAlives: false,
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
			},
		},
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	var respBody []byte
	_, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		err := retry.Do(ctx, c.retryOpts, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Accept", "application/json")

			start := time.Now()
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
			if err != nil {
				return err
			}

			logging.LogDebug("Upstream GET",
				zap.String("url", url),
				zap.Int("status", resp.StatusCode),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int("bytes", len(body)))

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return &retry.HTTPError{
					StatusCode: resp.StatusCode,
					Body:       body,
					RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
				}
			}
			respBody = body
			return nil
		})
		if err != nil {
			return nil, err
		}
		return respBody, nil
	})
	if err != nil {
		return nil, fmt.Errorf("zcash data GET failed: %w", err)
	}
	return respBody, nil
}
