// internal/adapters/upstream/client.go
package upstream

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"guest_reviews/internal/adapters/observability"
)

var (
	ErrNotFound     = errors.New("upstream: not found")
	ErrUnauthorized = errors.New("upstream: unauthorized")
	ErrForbidden    = errors.New("upstream: forbidden")
)

// Client is a rate-limited JSON GET client shared by the review sources.
type Client struct {
	service string
	base    string
	hc      *http.Client
	headers http.Header
	rl      *rate.Limiter
}

type Options struct {
	Service string // metrics label, e.g. "hostaway"
	BaseURL string
	Headers http.Header
	RPS     int
	Timeout time.Duration
}

func New(o Options) (*Client, error) {
	if strings.TrimSpace(o.BaseURL) == "" {
		return nil, fmt.Errorf("%s: base URL is required", o.Service)
	}
	rps := o.RPS
	if rps <= 0 {
		rps = 5
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	h := http.Header{}
	for k, vs := range o.Headers {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	return &Client{
		service: o.Service,
		base:    strings.TrimRight(o.BaseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		headers: h,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// GetJSON fetches base+path and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	start := time.Now()
	status, err := c.get(ctx, c.base+path, out)
	observability.ObserveExternal(c.service, path, status, time.Since(start))
	return err
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
// The returned status is the last HTTP status seen (0 on transport failure).
func (c *Client) get(ctx context.Context, url string, out any) (int, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return 0, err
	}

	var lastErr error
	lastStatus := 0
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, err
		}
		for k, vs := range c.headers {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "guest-reviews/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			return 0, lastErr
		}
		lastStatus = resp.StatusCode

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return lastStatus, fmt.Errorf("%s: decode body: %w", c.service, err)
			}
			return lastStatus, nil

		case http.StatusNotFound:
			resp.Body.Close()
			return lastStatus, ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return lastStatus, ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return lastStatus, ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%s: remote %d", c.service, resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return lastStatus, ctx.Err()
			}
			return lastStatus, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return lastStatus, fmt.Errorf("%s: bad status %d: %s", c.service, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastStatus, lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff: 200ms, 400ms, 800ms... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
