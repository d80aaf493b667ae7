package github

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/libscout/libscout/pkg/errors"
	"github.com/libscout/libscout/pkg/httputil"
	"github.com/libscout/libscout/pkg/observability"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "libscout"
	acceptHeader     = "application/vnd.github.v3+json"
	httpTimeout      = 10 * time.Second
)

// Config holds the settings for a Client. The zero value is usable:
// requests go unauthenticated to the public API.
type Config struct {
	// Token is an optional personal access token. Without one, the API
	// allows far fewer requests per hour.
	Token string

	// BaseURL overrides the API host, mainly for tests.
	BaseURL string

	// UserAgent identifies this client to the API. Defaults to "libscout".
	UserAgent string

	// HTTPClient overrides the transport. Defaults to a client with a
	// 10 second socket timeout.
	HTTPClient *http.Client

	// Logger receives debug output. Defaults to a silent logger.
	Logger *log.Logger
}

// Client issues authenticated read requests to the GitHub API, tracks the
// remaining quota, and retries transient failures with exponential backoff.
// Construct one per process and share it: the rate-limit budget it tracks
// is global, and the client is safe for concurrent use.
type Client struct {
	http      *http.Client
	baseURL   string
	token     string
	userAgent string
	logger    *log.Logger
	limits    *RateLimitState

	requests atomic.Int64
	failures atomic.Int64
}

// NewClient creates a Client from cfg, applying defaults for unset fields.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: httpTimeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		http:      httpClient,
		baseURL:   baseURL,
		token:     cfg.Token,
		userAgent: userAgent,
		logger:    logger,
		limits:    NewRateLimitState(),
	}
}

// RateLimit exposes the shared budget tracker.
func (c *Client) RateLimit() *RateLimitState { return c.limits }

// Stats returns a coarse health snapshot: total attempts, consecutive
// failures since the last success, and the last known quota state.
func (c *Client) Stats() Stats {
	return Stats{
		RequestCount:       c.requests.Load(),
		FailureCount:       c.failures.Load(),
		RateLimitRemaining: c.limits.Remaining(),
		RateLimitResetAt:   c.limits.ResetAt(),
	}
}

// SearchRepositories runs a repository search sorted by stars descending.
func (c *Client) SearchRepositories(ctx context.Context, query string, perPage int) (*RepoSearchResult, error) {
	path := fmt.Sprintf("/search/repositories?q=%s&per_page=%d&sort=stars&order=desc",
		url.QueryEscape(query), perPage)
	var result RepoSearchResult
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchCode runs a code search sorted by stars descending.
func (c *Client) SearchCode(ctx context.Context, query string, perPage int) (*CodeSearchResult, error) {
	path := fmt.Sprintf("/search/code?q=%s&per_page=%d&sort=stars&order=desc",
		url.QueryEscape(query), perPage)
	var result CodeSearchResult
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRepository fetches a single repository by owner and name.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	if err := errors.ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	var result Repository
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LatestRelease fetches the most recent release of a repository.
func (c *Client) LatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	if err := errors.ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	var result Release
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/releases/latest", owner, repo), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// get performs one logical API call: budget check, send, bounded retries.
// Transient failures (server errors, timeouts, throttling with a hint)
// are retried; everything else surfaces on the first occurrence. The
// failure counter resets to zero on any success.
func (c *Client) get(ctx context.Context, path string, v any) error {
	if wait, ok := c.limits.Acquire(); !ok {
		c.failures.Add(1)
		c.logger.Debug("request rejected: quota exhausted", "path", path, "wait", wait)
		return &errors.RateLimitedError{
			RetryAfter: wait,
			ResetAt:    c.limits.ResetAt(),
			Message:    "API quota exhausted",
		}
	}

	err := httputil.Retry(ctx, func() error {
		return c.attempt(ctx, path, v)
	})
	if err != nil {
		c.failures.Add(1)
		return err
	}
	c.failures.Store(0)
	return nil
}

func (c *Client) attempt(ctx context.Context, path string, v any) error {
	c.requests.Add(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create request")
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, req.URL.Host, req.URL.Path, err)
		var ne net.Error
		if stderrors.As(err, &ne) && ne.Timeout() {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeTimeout, err, "request timed out"))
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "request failed")
	}
	defer resp.Body.Close()

	// Quota headers are authoritative on every response, including errors.
	c.limits.Update(resp.Header)
	observability.HTTP().OnResponse(ctx, http.MethodGet, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := c.checkStatus(resp); err != nil {
		c.logger.Debug("request failed", "path", path, "status", resp.StatusCode)
		return err
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "decode response")
	}
	return nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusForbidden:
		rlErr := &errors.RateLimitedError{
			ResetAt: c.limits.ResetAt(),
			Message: "quota exceeded or access denied",
		}
		// Only a Retry-After hint makes throttling worth waiting out.
		if hint := retryAfter(resp.Header); hint > 0 {
			rlErr.RetryAfter = hint
			return &httputil.RetryableError{Err: rlErr, RetryAfter: hint}
		}
		return rlErr
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "resource not found")
	case code == http.StatusUnprocessableEntity:
		return errors.New(errors.ErrCodeInvalidQuery, "query rejected by the API")
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		return httputil.Retryable(errors.New(errors.ErrCodeServer, "server error (status %d)", code))
	default:
		return errors.New(errors.ErrCodeServer, "unexpected status %d", code)
	}
}
