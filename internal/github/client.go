// Package github lists a user's public repositories through the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"devconnector/internal/config"
	"devconnector/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const userAgent = "devconnector-api"

// ErrNotFound is returned for any lookup that did not produce a repository list.
var ErrNotFound = errors.New("github profile not found")

// RepoLister fetches repository listings.
type RepoLister interface {
	// Repos returns the GitHub JSON array of username's five oldest repositories.
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

// Client calls the GitHub API with fiber's HTTP agent.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

// NewClient builds a client from the application config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.GitHubAPIURL,
		token:   cfg.GitHubToken,
		timeout: cfg.GitHubRequestTimeout(),
	}
}

// Repos implements RepoLister.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, span := observability.StartClientSpan(ctx, "github", "repos")
	start := time.Now()
	body, err := c.fetch(username)
	observability.GitHubLatency.Observe(time.Since(start).Seconds())
	observability.EndSpan(span, err)

	if err != nil {
		observability.GitHubRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	observability.GitHubRequests.WithLabelValues("ok").Inc()
	return body, nil
}

func (c *Client) fetch(username string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc",
		c.baseURL, url.PathEscape(username))

	a := fiber.Get(endpoint)
	a.UserAgent(userAgent)
	a.Set(fiber.HeaderAccept, "application/vnd.github+json")
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "token "+c.token)
	}
	a.Timeout(c.timeout)

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("%w: upstream status %d", ErrNotFound, code)
	}

	var repos []json.RawMessage
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return json.RawMessage(body), nil
}
