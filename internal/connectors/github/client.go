package github

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/forgedash/internal/core/domain"
	"github.com/custodia-labs/forgedash/internal/core/ports/driven"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Forge builds and caches one authenticated Client per host.
type Forge struct {
	mu      sync.Mutex
	tokens  driven.TokenProvider
	clients map[string]*Client
}

// NewForge creates a forge backed by the given token provider.
func NewForge(tokens driven.TokenProvider) *Forge {
	return &Forge{
		tokens:  tokens,
		clients: make(map[string]*Client),
	}
}

// ForHost returns the client for host, building it on first use.
func (f *Forge) ForHost(host string) (driven.ForgeClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[host]; ok {
		return c, nil
	}

	token, err := f.tokens.Token(host)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", domain.ErrAuthRequired, host, err)
	}

	c, err := newClient(host, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnknownHost, host, err)
	}
	f.clients[host] = c
	return c, nil
}

// Client wraps the go-github client for one host with rate limiting.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

func newClient(host, token string) (*Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = DefaultTimeout

	client := gh.NewClient(tc)
	if host != domain.DefaultHost {
		var err error
		baseURL := fmt.Sprintf("https://%s/api/v3/", host)
		uploadURL := fmt.Sprintf("https://%s/api/uploads/", host)
		client, err = client.WithEnterpriseURLs(baseURL, uploadURL)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		gh:          client,
		rateLimiter: NewRateLimiter(),
	}, nil
}

// wait pays the rate limiter before an API call.
func (c *Client) wait(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// finish records the response's quota headers and returns a snapshot for
// the event payload.
func (c *Client) finish(resp *gh.Response) *domain.RateLimitInfo {
	if resp != nil && resp.Response != nil {
		c.rateLimiter.UpdateFromResponse(resp.Response)
	}
	return c.rateLimiter.Snapshot()
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		reset := time.Now()
		if abuseErr.RetryAfter != nil {
			reset = reset.Add(*abuseErr.RetryAfter)
		}
		return &RateLimitError{
			ResetAt:   reset,
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
			Secondary: true,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		url := ""
		if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
			url = ghErr.Response.Request.URL.String()
		}
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        url,
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}

// RateLimit polls the current API quota.
func (c *Client) RateLimit(ctx context.Context) (*domain.RateLimitInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	limits, resp, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return nil, c.wrapError(err, "get rate limit")
	}
	c.finish(resp)

	core := limits.GetCore()
	if core == nil {
		return c.rateLimiter.Snapshot(), nil
	}
	return &domain.RateLimitInfo{
		Limit:     core.Limit,
		Remaining: core.Remaining,
		Cost:      1,
	}, nil
}

// CurrentUser returns the authenticated user's login.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	user, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", c.wrapError(err, "get current user")
	}
	c.finish(resp)
	return user.GetLogin(), nil
}

var _ driven.Forge = (*Forge)(nil)
var _ driven.ForgeClient = (*Client)(nil)
