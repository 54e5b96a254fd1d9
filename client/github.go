package client

import (
	"context"
	"sync"

	"github.com/omk-66/playgrounds/internal/github"
)

// The GitHub stores wrap the read-only GitHub client. Profile and repo data
// changes rarely, so those two stores are fetch-once: a Fetch with data
// already present is a no-op. That is a memoization policy, not a cache with
// a clock — anyone who needs fresh data calls Invalidate first. Commit
// history moves fast, so CommitStore refetches every time.

// GitHubUserStore holds one GitHub user profile.
type GitHubUserStore struct {
	gh *github.Client

	mu      sync.Mutex
	user    *github.User
	loading bool
	err     string
}

// NewGitHubUserStore creates a GitHubUserStore backed by gh.
func NewGitHubUserStore(gh *github.Client) *GitHubUserStore {
	return &GitHubUserStore{gh: gh}
}

// Fetch loads the profile for login. No-op if a profile is already held —
// call Invalidate to force a refetch.
func (s *GitHubUserStore) Fetch(ctx context.Context, login string) {
	s.mu.Lock()
	if s.user != nil {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	user, err := s.gh.GetUser(ctx, login)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = "Failed to fetch GitHub user"
		return
	}
	s.user = user
}

// Invalidate drops the held profile so the next Fetch hits the network.
func (s *GitHubUserStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.err = ""
}

// User returns the held profile, or nil.
func (s *GitHubUserStore) User() *github.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Loading reports whether a fetch is in flight.
func (s *GitHubUserStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the display error from the last fetch, or "".
func (s *GitHubUserStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// GitHubRepoStore holds a user's repository list.
type GitHubRepoStore struct {
	gh *github.Client

	mu      sync.Mutex
	repos   []github.Repo
	loading bool
	err     string
}

// NewGitHubRepoStore creates a GitHubRepoStore backed by gh.
func NewGitHubRepoStore(gh *github.Client) *GitHubRepoStore {
	return &GitHubRepoStore{gh: gh}
}

// Fetch loads the repo list for login. No-op if a list is already held —
// call Invalidate to force a refetch.
func (s *GitHubRepoStore) Fetch(ctx context.Context, login string) {
	s.mu.Lock()
	if s.repos != nil {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	repos, err := s.gh.ListRepos(ctx, login)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = "Failed to fetch repositories"
		return
	}
	if repos == nil {
		repos = []github.Repo{}
	}
	s.repos = repos
}

// Invalidate drops the held list so the next Fetch hits the network.
func (s *GitHubRepoStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repos = nil
	s.err = ""
}

// Repos returns the held list, or nil before the first successful fetch.
func (s *GitHubRepoStore) Repos() []github.Repo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repos
}

// Loading reports whether a fetch is in flight.
func (s *GitHubRepoStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the display error from the last fetch, or "".
func (s *GitHubRepoStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// CommitStore holds the commit history of one repository. Unlike the profile
// and repo stores it refetches on every call.
type CommitStore struct {
	gh *github.Client

	mu      sync.Mutex
	commits []github.Commit
	loading bool
	err     string
}

// NewCommitStore creates a CommitStore backed by gh.
func NewCommitStore(gh *github.Client) *CommitStore {
	return &CommitStore{gh: gh}
}

// Fetch loads the first page of commits for owner/repo.
func (s *CommitStore) Fetch(ctx context.Context, owner, repo string) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	commits, err := s.gh.ListCommits(ctx, owner, repo)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = "Failed to fetch commit history"
		return
	}
	if commits == nil {
		commits = []github.Commit{}
	}
	s.commits = commits
}

// Commits returns the held history.
func (s *CommitStore) Commits() []github.Commit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Loading reports whether a fetch is in flight.
func (s *CommitStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the display error from the last fetch, or "".
func (s *CommitStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
