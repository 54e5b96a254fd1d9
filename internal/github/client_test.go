package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/omk-66/playgrounds/internal/apperror"
)

// fakeGitHub serves canned responses for the three endpoints the client knows.
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/users/octocat", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q, want application/vnd.github+json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"login": "octocat",
			"avatar_url": "https://avatars.example.com/octocat",
			"public_repos": 8,
			"followers": 100,
			"following": 9
		}`))
	})

	mux.HandleFunc("/users/octocat/repos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "name": "hello-world", "full_name": "octocat/hello-world", "stargazers_count": 42, "language": "Go"},
			{"id": 2, "name": "spoon-knife", "full_name": "octocat/spoon-knife", "fork": true}
		]`))
	})

	mux.HandleFunc("/repos/octocat/hello-world/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"sha": "abc123",
				"html_url": "https://example.com/commit/abc123",
				"commit": {
					"message": "initial commit",
					"author": {"name": "Octo Cat", "email": "octo@example.com", "date": "2024-01-02T03:04:05Z"}
				}
			}
		]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGetUser(t *testing.T) {
	server := fakeGitHub(t)
	client := NewClient(server.URL)

	user, err := client.GetUser(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}

	if user.Login != "octocat" {
		t.Errorf("Login = %q, want octocat", user.Login)
	}
	if user.PublicRepos != 8 {
		t.Errorf("PublicRepos = %d, want 8", user.PublicRepos)
	}
}

func TestListRepos(t *testing.T) {
	server := fakeGitHub(t)
	client := NewClient(server.URL)

	repos, err := client.ListRepos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("ListRepos() error = %v", err)
	}

	if len(repos) != 2 {
		t.Fatalf("got %d repos, want 2", len(repos))
	}
	if repos[0].StargazersCount != 42 {
		t.Errorf("StargazersCount = %d, want 42", repos[0].StargazersCount)
	}
	if !repos[1].Fork {
		t.Error("Fork = false for the second repo, want true")
	}
}

func TestListCommits(t *testing.T) {
	server := fakeGitHub(t)
	client := NewClient(server.URL)

	commits, err := client.ListCommits(context.Background(), "octocat", "hello-world")
	if err != nil {
		t.Fatalf("ListCommits() error = %v", err)
	}

	if len(commits) != 1 {
		t.Fatalf("got %d commits, want 1", len(commits))
	}
	if commits[0].SHA != "abc123" {
		t.Errorf("SHA = %q, want abc123", commits[0].SHA)
	}
	if commits[0].Commit.Author.Name != "Octo Cat" {
		t.Errorf("author = %q, want Octo Cat", commits[0].Commit.Author.Name)
	}
}

func TestNonOKStatusIsUpstream(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"missing user", http.StatusNotFound},
		{"rate limited", http.StatusForbidden},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.GetUser(context.Background(), "octocat")
			if !errors.Is(err, apperror.ErrUpstream) {
				t.Errorf("GetUser() error = %v, want ErrUpstream", err)
			}
		})
	}
}

func TestUnreachableHostIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // closed before use

	client := NewClient(server.URL)
	_, err := client.GetUser(context.Background(), "octocat")
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Errorf("GetUser() error = %v, want ErrUpstream", err)
	}
}

func TestMalformedBodyIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetUser(context.Background(), "octocat")
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Errorf("GetUser() error = %v, want ErrUpstream", err)
	}
}
