// Package webshare implements the Webshare.cz file-hosting API: the two-step
// salted login, paginated full-text search, file metadata and direct links.
package webshare

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultBaseURL = "https://webshare.cz/api"

// defaultMinInterval is the minimum wall-clock gap between any two outbound
// requests, regardless of caller. The remote service throttles aggressively.
const defaultMinInterval = time.Second

const loginAttempts = 3

// Client is a Webshare API client holding one login session.
// All requests from all goroutines are serialized through its rate limiter.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	log        *slog.Logger

	limiter *limiter

	mu         sync.Mutex
	token      string
	authFailed bool

	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMinInterval overrides the request rate limit interval.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) {
		c.limiter = newLimiter(d)
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "webshare")
	}
}

// NewClient creates a Webshare client for the given credentials.
// No network traffic happens until the first request needs a session.
func NewClient(username, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 45 * time.Second,
		},
		limiter: newLimiter(defaultMinInterval),
		sleep:   sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// limiter enforces a process-wide minimum interval between outbound requests.
type limiter struct {
	mu       sync.Mutex
	next     time.Time
	interval time.Duration
}

func newLimiter(interval time.Duration) *limiter {
	return &limiter{interval: interval}
}

// wait blocks until the next request slot. The mutex is held across the
// sleep on purpose: no two requests may fire closer together than the
// interval even when callers arrive concurrently.
func (l *limiter) wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Before(l.next) {
		if err := sleepCtx(ctx, l.next.Sub(now)); err != nil {
			return err
		}
	}
	l.next = time.Now().Add(l.interval)
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type saltResponse struct {
	Status string `xml:"status"`
	Salt   string `xml:"salt"`
}

type loginResponse struct {
	Status string `xml:"status"`
	Token  string `xml:"token"`
}

// Token returns the current session token, or empty when not logged in.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Login establishes a session: fetch the account salt, derive the credential
// hashes and submit them. Up to three attempts with backoff; exhausting the
// budget is terminal for this client.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginLocked(ctx)
}

// ensureSession logs in on first use. A previous terminal failure is not
// retried within the same run.
func (c *Client) ensureSession(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}
	if c.authFailed {
		return "", ErrNotLoggedIn
	}
	if err := c.loginLocked(ctx); err != nil {
		return "", err
	}
	return c.token, nil
}

func (c *Client) loginLocked(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		if c.log != nil {
			c.log.Info("logging in", "attempt", attempt, "max_attempts", loginAttempts)
		}

		salt, err := c.fetchSalt(ctx)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if attempt < loginAttempts {
				if err := c.sleep(ctx, 2*time.Second); err != nil {
					return err
				}
			}
			continue
		}

		token, err := c.submitCredentials(ctx, salt)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if attempt < loginAttempts {
				if err := c.sleep(ctx, 3*time.Second); err != nil {
					return err
				}
			}
			continue
		}

		c.token = token
		if c.log != nil {
			c.log.Info("login successful")
		}
		return nil
	}

	c.authFailed = true
	return fmt.Errorf("%w: %v", ErrAuthFailed, lastErr)
}

func (c *Client) fetchSalt(ctx context.Context) (string, error) {
	var resp saltResponse
	err := c.postForm(ctx, "/salt/", url.Values{
		"username_or_email": {c.username},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("fetch salt: %w", err)
	}
	if resp.Status != "OK" {
		return "", fmt.Errorf("fetch salt: status %q", resp.Status)
	}
	return resp.Salt, nil
}

func (c *Client) submitCredentials(ctx context.Context, salt string) (string, error) {
	hash := passwordHash(c.password, salt)
	var resp loginResponse
	err := c.postForm(ctx, "/login/", url.Values{
		"username_or_email": {c.username},
		"password":          {hash},
		"digest":            {loginDigest(c.username, hash)},
		"keep_logged_in":    {"1"},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if resp.Status != "OK" || resp.Token == "" {
		return "", fmt.Errorf("login: status %q", resp.Status)
	}
	return resp.Token, nil
}

// postForm performs one rate-limited form POST and decodes the XML body.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	if err := c.limiter.wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
