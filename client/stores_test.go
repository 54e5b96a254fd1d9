package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/omk-66/playgrounds/internal/github"
)

// fakeAPI serves envelope responses for the playground and session routes,
// counting hits so tests can assert how many network calls a store made.
type fakeAPI struct {
	listHits    atomic.Int64
	sessionHits atomic.Int64
	failList    atomic.Bool
	server      *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/playground/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.listHits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			if f.failList.Load() {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"status":"error","message":"Unauthorized access"}`))
				return
			}
			w.Write([]byte(`{"status":"success","data":[
			{"id":1,"name":"first","description":"a playground","visibility":"public","tags":[],"isFeatured":false,"creatorId":"alice"},
			{"id":2,"name":"second","description":"a playground","visibility":"private","tags":["go"],"isFeatured":false,"creatorId":"alice"}
		]}`))
		case http.MethodDelete:
			w.Header().Set("Content-Type", "application/json")
			if strings.TrimPrefix(r.URL.Path, "/api/playground/") == "1" {
				w.Write([]byte(`{"status":"success","message":"Playground deleted successfully"}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":"error","message":"Playground not found"}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		f.sessionHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":"alice","name":"Alice","email":"alice@example.com"}}`))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newStoreClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(baseURL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestPlaygroundStore_Fetch(t *testing.T) {
	api := newFakeAPI(t)
	store := NewPlaygroundStore(newStoreClient(t, api.server.URL))

	store.Fetch(context.Background(), "alice")

	if store.Loading() {
		t.Error("Loading() = true after Fetch settled")
	}
	if store.Err() != "" {
		t.Errorf("Err() = %q, want empty", store.Err())
	}
	if got := store.Playgrounds(); len(got) != 2 {
		t.Errorf("got %d playgrounds, want 2", len(got))
	}
}

func TestPlaygroundStore_AlwaysRefetches(t *testing.T) {
	// Unlike the GitHub stores, the playground list has no memoization.
	api := newFakeAPI(t)
	store := NewPlaygroundStore(newStoreClient(t, api.server.URL))

	store.Fetch(context.Background(), "alice")
	store.Fetch(context.Background(), "alice")

	if got := api.listHits.Load(); got != 2 {
		t.Errorf("list endpoint hit %d times, want 2", got)
	}
}

func TestPlaygroundStore_FetchFailure(t *testing.T) {
	api := newFakeAPI(t)
	store := NewPlaygroundStore(newStoreClient(t, api.server.URL))
	api.failList.Store(true)

	store.Fetch(context.Background(), "alice")

	if store.Err() == "" {
		t.Error("Err() empty after a failed fetch")
	}
	if store.Err() != "Unauthorized access" {
		t.Errorf("Err() = %q, want the server's message", store.Err())
	}
	if store.Loading() {
		t.Error("Loading() = true after a failed fetch settled")
	}
}

func TestPlaygroundStore_FailureKeepsOldData(t *testing.T) {
	// A failed refetch reports the error but leaves the last good list alone,
	// never data and error mixed from the same operation.
	api := newFakeAPI(t)
	store := NewPlaygroundStore(newStoreClient(t, api.server.URL))

	store.Fetch(context.Background(), "alice")
	api.failList.Store(true)
	store.Fetch(context.Background(), "alice")

	if got := store.Playgrounds(); len(got) != 2 {
		t.Errorf("failed refetch dropped the held list, got %d", len(got))
	}
	if store.Err() == "" {
		t.Error("Err() empty after a failed refetch")
	}
}

func TestPlaygroundStore_Delete(t *testing.T) {
	api := newFakeAPI(t)
	store := NewPlaygroundStore(newStoreClient(t, api.server.URL))
	store.Fetch(context.Background(), "alice")

	deleted, err := store.Delete(context.Background(), 1)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if deleted == nil || deleted.ID != 1 {
		t.Errorf("Delete() returned %v, want the removed record with ID 1", deleted)
	}
	if got := store.Playgrounds(); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("list after delete = %v, want just ID 2", got)
	}
}

func TestPlaygroundStore_DeleteFailureLeavesList(t *testing.T) {
	api := newFakeAPI(t)
	store := NewPlaygroundStore(newStoreClient(t, api.server.URL))
	store.Fetch(context.Background(), "alice")

	if _, err := store.Delete(context.Background(), 999); err == nil {
		t.Fatal("Delete() of an unknown ID succeeded")
	}

	if got := store.Playgrounds(); len(got) != 2 {
		t.Errorf("failed delete changed the list, got %d entries", len(got))
	}
	if store.Err() == "" {
		t.Error("Err() empty after a failed delete")
	}
}

func TestSessionStore_FetchAndClear(t *testing.T) {
	api := newFakeAPI(t)
	store := NewSessionStore(newStoreClient(t, api.server.URL))

	store.Fetch(context.Background())

	user := store.User()
	if user == nil || user.ID != "alice" {
		t.Fatalf("User() = %v, want alice", user)
	}

	store.Clear()
	if store.User() != nil {
		t.Error("User() non-nil after Clear()")
	}
}

// fakeGitHubAPI counts hits so the memoization tests can see network calls.
type fakeGitHubAPI struct {
	userHits atomic.Int64
	repoHits atomic.Int64
	server   *httptest.Server
}

func newFakeGitHubAPI(t *testing.T) *fakeGitHubAPI {
	t.Helper()
	f := &fakeGitHubAPI{}

	mux := http.NewServeMux()
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/repos") {
			f.repoHits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":1,"name":"hello-world"}]`))
			return
		}
		f.userHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"login":"octocat","public_repos":2}`))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func TestGitHubUserStore_FetchOnce(t *testing.T) {
	api := newFakeGitHubAPI(t)
	store := NewGitHubUserStore(github.NewClient(api.server.URL))

	store.Fetch(context.Background(), "octocat")
	store.Fetch(context.Background(), "octocat")
	store.Fetch(context.Background(), "octocat")

	if got := api.userHits.Load(); got != 1 {
		t.Errorf("user endpoint hit %d times, want 1 (fetch-once)", got)
	}
	if user := store.User(); user == nil || user.Login != "octocat" {
		t.Errorf("User() = %v, want octocat", user)
	}
}

func TestGitHubUserStore_Invalidate(t *testing.T) {
	api := newFakeGitHubAPI(t)
	store := NewGitHubUserStore(github.NewClient(api.server.URL))

	store.Fetch(context.Background(), "octocat")
	store.Invalidate()

	if store.User() != nil {
		t.Error("User() non-nil after Invalidate()")
	}

	store.Fetch(context.Background(), "octocat")
	if got := api.userHits.Load(); got != 2 {
		t.Errorf("user endpoint hit %d times, want 2 after Invalidate", got)
	}
}

func TestGitHubRepoStore_FetchOnce(t *testing.T) {
	api := newFakeGitHubAPI(t)
	store := NewGitHubRepoStore(github.NewClient(api.server.URL))

	store.Fetch(context.Background(), "octocat")
	store.Fetch(context.Background(), "octocat")

	if got := api.repoHits.Load(); got != 1 {
		t.Errorf("repos endpoint hit %d times, want 1 (fetch-once)", got)
	}

	store.Invalidate()
	store.Fetch(context.Background(), "octocat")
	if got := api.repoHits.Load(); got != 2 {
		t.Errorf("repos endpoint hit %d times, want 2 after Invalidate", got)
	}
}

func TestGitHubUserStore_FetchFailure(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden) // rate limited
	}))
	defer server.Close()

	store := NewGitHubUserStore(github.NewClient(server.URL))
	store.Fetch(context.Background(), "octocat")

	if store.Err() == "" {
		t.Error("Err() empty after a failed fetch")
	}
	if store.User() != nil {
		t.Error("User() non-nil after a failed fetch")
	}

	// A failure is not memoized: the next Fetch tries the network again.
	store.Fetch(context.Background(), "octocat")
	if got := hits.Load(); got != 2 {
		t.Errorf("endpoint hit %d times, want 2 (failures don't memoize)", got)
	}
}
