// Package transport is the outbound HTTP layer shared by the marketplace
// clients: client-side rate limiting, retries, and status classification.
package transport

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"app_reviews/internal/adapters/observability"
	"app_reviews/internal/domain"
)

const (
	maxAttempts  = 4
	maxBodyBytes = 32 << 20
	userAgent    = "Mozilla/5.0 (compatible; app-reviews/1.0)"
)

type Client struct {
	service string
	hc      *http.Client
	rl      *rate.Limiter
}

type Request struct {
	Method   string
	URL      string
	Body     []byte
	Header   http.Header
	Endpoint string // metrics label
}

func New(service string, rps int, timeout time.Duration) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		service: service,
		hc:      &http.Client{Timeout: timeout},
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (c *Client) Get(ctx context.Context, url, endpoint string, h http.Header) ([]byte, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: url, Header: h, Endpoint: endpoint})
}

func (c *Client) Post(ctx context.Context, url, endpoint, contentType string, body []byte, h http.Header) ([]byte, error) {
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Type", contentType)
	return c.Do(ctx, Request{Method: http.MethodPost, URL: url, Body: body, Header: h, Endpoint: endpoint})
}

// Do performs the request with rate limiting and retries, returning the full
// response body. Retries on 429 and transient 5xx, honoring Retry-After.
// The response body is always closed before Do returns.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, bytes.NewReader(r.Body))
		if err != nil {
			return nil, err
		}
		for k, vs := range r.Header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		if req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", userAgent)
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(c.service, r.Endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}
		observability.ObserveExternal(c.service, r.Endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			resp.Body.Close()
			return b, err

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, nil

		case http.StatusNotFound:
			resp.Body.Close()
			return nil, domain.ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return nil, domain.ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return nil, domain.ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return nil, lastErr
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

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
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
