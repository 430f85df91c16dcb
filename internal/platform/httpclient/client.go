// Package httpclient wraps net/http with structured logging and optional
// retries, used by the alert pipeline's webhook dispatcher. Webhook alert
// delivery is configured with zero retries — a single delivery attempt
// only — but the retry machinery stays general-purpose rather than
// hardcoded to that one caller.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	randv2 "math/rand/v2"
	"net"
	stdhttp "net/http"
	"net/url"
	"os"
	"strconv"
	"syscall"
	"time"
)

// Client wraps http.Client with logging and retries.
type Client struct {
	hc           *stdhttp.Client
	log          *slog.Logger
	retries      int
	baseBackoff  time.Duration
	maxBackoff   time.Duration
	headers      map[string]string
	urlRedactor  func(*url.URL) string
	retryMethods map[string]struct{}
	retryPolicy  func(*stdhttp.Response, error) (time.Duration, bool)
}

// Option configures Client.
type Option func(*Client)

// WithTimeout sets request timeout.
func WithTimeout(t time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = t }
}

// WithLogger sets logger used by client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRetries sets the retry count and base backoff. WithRetries(0, 0)
// disables retries entirely, sending each request exactly once.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		if backoff > 0 {
			c.baseBackoff = backoff
		}
	}
}

// WithMaxBackoff limits exponential backoff growth.
func WithMaxBackoff(d time.Duration) Option {
	return func(c *Client) { c.maxBackoff = d }
}

// WithHeaders adds default headers to each request.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		for k, v := range h {
			if c.headers == nil {
				c.headers = make(map[string]string)
			}
			c.headers[k] = v
		}
	}
}

// WithURLRedactor sets URL redactor for logs.
func WithURLRedactor(f func(*url.URL) string) Option {
	return func(c *Client) { c.urlRedactor = f }
}

// WithTransport sets custom transport.
func WithTransport(rt stdhttp.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.hc.Transport = rt
		}
	}
}

// New creates configured Client.
func New(opts ...Option) *Client {
	tr := stdhttp.DefaultTransport.(*stdhttp.Transport).Clone()
	tr.MaxIdleConns = 100
	tr.MaxConnsPerHost = 100
	tr.MaxIdleConnsPerHost = 100
	tr.IdleConnTimeout = 90 * time.Second
	tr.TLSHandshakeTimeout = 10 * time.Second
	tr.ResponseHeaderTimeout = 10 * time.Second
	tr.ExpectContinueTimeout = 1 * time.Second

	c := &Client{
		hc: &stdhttp.Client{
			Timeout:   15 * time.Second,
			Transport: tr,
		},
		log:         slog.Default(),
		retries:     0,
		baseBackoff: 200 * time.Millisecond,
		retryPolicy: retryInfo,
		retryMethods: map[string]struct{}{
			stdhttp.MethodGet:     {},
			stdhttp.MethodHead:    {},
			stdhttp.MethodOptions: {},
			stdhttp.MethodPut:     {},
			stdhttp.MethodDelete:  {},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// retryAfter parses Retry-After header value.
func retryAfter(h string) time.Duration {
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := stdhttp.ParseTime(h); err == nil {
		d := time.Until(t)
		if d < 0 {
			return 0
		}
		return d
	}
	return 0
}

func (c *Client) redactURL(u *url.URL) string {
	if c.urlRedactor != nil {
		return c.urlRedactor(u)
	}
	return u.Redacted()
}

func drainAndClose(b io.ReadCloser) {
	if b == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, b, 512<<10)
	_ = b.Close()
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		if ne, ok := ue.Err.(net.Error); ok && ne.Timeout() {
			return true
		}
		if oe, ok := ue.Err.(*net.OpError); ok {
			if se, ok := oe.Err.(*os.SyscallError); ok {
				switch se.Err {
				case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ECONNABORTED,
					syscall.ENETDOWN, syscall.ENETUNREACH, syscall.EPIPE,
					syscall.EHOSTUNREACH, syscall.ETIMEDOUT:
					return true
				}
			}
		}
		var dnsErr *net.DNSError
		if errors.As(ue.Err, &dnsErr) && dnsErr.IsTemporary {
			return true
		}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return false
}

func retryInfo(resp *stdhttp.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, isRetryableError(err)
	}
	switch resp.StatusCode {
	case 408, 421, 425:
		drainAndClose(resp.Body)
		return 0, true
	case 429, 503:
		delay := retryAfter(resp.Header.Get("Retry-After"))
		drainAndClose(resp.Body)
		return delay, true
	default:
		if resp.StatusCode >= 500 {
			delay := retryAfter(resp.Header.Get("Retry-After"))
			drainAndClose(resp.Body)
			return delay, true
		}
		return 0, false
	}
}

// Do sends an HTTP request with logging and, if configured, retries. With
// zero retries (the webhook dispatcher's configuration) it sends the
// request exactly once, buffering nothing.
func (c *Client) Do(ctx context.Context, req *stdhttp.Request) (*stdhttp.Response, error) {
	retries := c.retries
	if _, ok := c.retryMethods[req.Method]; !ok {
		retries = 0
	}

	if retries > 0 && req.Body != nil && req.GetBody == nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		req.GetBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(body)), nil }
		rc, _ := req.GetBody()
		req.Body = rc
	}

	var lastErr error
	for attempt := 1; attempt <= retries+1; attempt++ {
		r := req.Clone(ctx)
		for k, v := range c.headers {
			if r.Header.Get(k) == "" {
				r.Header.Set(k, v)
			}
		}
		if r.GetBody != nil {
			rc, err := r.GetBody()
			if err != nil {
				return nil, err
			}
			r.Body = rc
		}

		u := c.redactURL(r.URL)
		st := time.Now()
		resp, err := c.hc.Do(r)
		dur := time.Since(st)
		var delay time.Duration
		retry := false
		if attempt <= retries {
			delay, retry = c.retryPolicy(resp, err)
		}

		if !retry {
			if err != nil {
				c.log.Warn("http request error", slog.String("method", r.Method), slog.String("url", u), slog.Int("attempt", attempt), slog.Any("error", err))
				return nil, err
			}
			c.log.Info("http request", slog.String("method", r.Method), slog.String("url", u), slog.Int("status", resp.StatusCode), slog.Duration("dur", dur), slog.Int("attempt", attempt))
			return resp, nil
		}

		wait := c.baseBackoff * time.Duration(1<<uint(attempt-1))
		if delay > 0 {
			wait = delay
		} else if wait > 0 {
			wait += time.Duration(randv2.Int64N(int64(wait)))
		}
		if c.maxBackoff > 0 && wait > c.maxBackoff {
			wait = c.maxBackoff
		}

		if err != nil {
			lastErr = err
			c.log.Warn("http request error", slog.String("method", r.Method), slog.String("url", u), slog.Int("attempt", attempt), slog.Duration("wait", wait), slog.Any("error", err))
		} else {
			lastErr = fmt.Errorf("%s %s: unexpected status %d", r.Method, u, resp.StatusCode)
			c.log.Warn("http request status", slog.String("method", r.Method), slog.String("url", u), slog.Int("attempt", attempt), slog.Duration("wait", wait), slog.Int("status", resp.StatusCode))
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt <= retries {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}
