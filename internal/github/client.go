// Package github is a minimal read-only client for GitHub's public REST API.
//
// It covers exactly the three endpoints the app browses: a user's profile,
// their repositories, and a repository's commit history. Calls are
// unauthenticated, read only the first page, and never retry — a rate limit
// or network blip surfaces to the caller as an upstream error.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/omk-66/playgrounds/internal/apperror"
)

// DefaultBaseURL is GitHub's public API endpoint.
const DefaultBaseURL = "https://api.github.com"

// User is the subset of GitHub's user object the app displays.
type User struct {
	Login       string    `json:"login"`
	AvatarURL   string    `json:"avatar_url"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repo is the subset of GitHub's repository object the app displays.
type Repo struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Private         bool      `json:"private"`
	HTMLURL         string    `json:"html_url"`
	Description     string    `json:"description"`
	Fork            bool      `json:"fork"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	WatchersCount   int       `json:"watchers_count"`
	ForksCount      int       `json:"forks_count"`
	OpenIssuesCount int       `json:"open_issues_count"`
	DefaultBranch   string    `json:"default_branch"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	PushedAt        time.Time `json:"pushed_at"`
}

// Commit mirrors the nested shape of GitHub's commit list entries.
type Commit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// Client calls the GitHub REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client against the public GitHub API. An empty baseURL
// selects DefaultBaseURL; tests point it at an httptest server. The 10-second
// timeout is the only failure handling there is — no retries.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// GetUser fetches the public profile for a GitHub login.
func (c *Client) GetUser(ctx context.Context, login string) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/"+url.PathEscape(login), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRepos fetches the first page of a user's public repositories.
func (c *Client) ListRepos(ctx context.Context, login string) ([]Repo, error) {
	var repos []Repo
	if err := c.get(ctx, "/users/"+url.PathEscape(login)+"/repos", &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// ListCommits fetches the first page of a repository's commit history.
func (c *Client) ListCommits(ctx context.Context, owner, repo string) ([]Commit, error) {
	var commits []Commit
	path := "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/commits"
	if err := c.get(ctx, path, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// get performs one GET and decodes the JSON body into out.
//
// Any non-200 answer becomes apperror.ErrUpstream with a generic message — we
// deliberately don't distinguish a rate limit from a missing user; the UI
// shows the same inline error either way.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("github: building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.Upstream("GitHub request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperror.Upstream(fmt.Sprintf("GitHub returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.Upstream("GitHub returned an unreadable response")
	}

	return nil
}
