// Package github fetches a developer's public repositories for display on
// their profile.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"devconnect/internal/cache"
	"devconnect/internal/observability"

	"github.com/doyensec/safeurl"
)

// ErrNotFound is returned when GitHub has no such user or the username is malformed.
var ErrNotFound = errors.New("github user not found")

// RepoLimit is the number of repositories returned per profile.
const RepoLimit = 5

const maxResponseBytes = 1 << 20

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)

// Repo is the subset of the GitHub repository payload shown on profiles.
type Repo struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	HTMLURL         string    `json:"html_url"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	WatchersCount   int       `json:"watchers_count"`
	ForksCount      int       `json:"forks_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// Client talks to the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient returns a Client whose transport refuses private, loopback and
// link-local destinations.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("https").
		SetAllowedPorts(443).
		Build()

	return NewClientWithHTTP(baseURL, token, safeurl.Client(config).Client)
}

// NewClientWithHTTP returns a Client using hc as-is.
func NewClientWithHTTP(baseURL, token string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    hc,
	}
}

// Repos returns up to RepoLimit of username's public repositories, newest
// first. Results are cached for cache.GithubTTL.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrNotFound
	}
	return cache.Aside(ctx, cache.GithubKey(username), cache.GithubTTL, func(ctx context.Context) ([]Repo, error) {
		return c.fetchRepos(ctx, username)
	})
}

func (c *Client) fetchRepos(ctx context.Context, username string) (repos []Repo, err error) {
	ctx, span := observability.StartClientSpan(ctx, "github", "repos")
	defer func() {
		observability.EndSpan(span, err)
		switch {
		case err == nil:
			observability.GithubRequests.WithLabelValues("ok").Inc()
		case errors.Is(err, ErrNotFound):
			observability.GithubRequests.WithLabelValues("not_found").Inc()
		default:
			observability.GithubRequests.WithLabelValues("error").Inc()
		}
	}()

	q := url.Values{
		"per_page":  {fmt.Sprint(RepoLimit)},
		"sort":      {"created"},
		"direction": {"desc"},
	}
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "devconnect-api")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("github returned status %d", resp.StatusCode)
	}

	repos = []Repo{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&repos); err != nil {
		return nil, fmt.Errorf("decode github response: %w", err)
	}
	if len(repos) > RepoLimit {
		repos = repos[:RepoLimit]
	}
	return repos, nil
}
