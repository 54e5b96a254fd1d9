package client

import (
	"context"
	"sync"

	"github.com/omk-66/playgrounds/internal/model"
)

// The stores below are the state containers the UI reads. Each is a small
// state machine — idle → loading → {ready, failed} — that re-enters loading
// on every Fetch. A Fetch makes exactly one network call, clears the error
// before it, and on settlement sets either the data or a display-ready error
// string, never both.
//
// Stores are plain constructed values wired to a Client, not package-level
// singletons: a container's lifetime matches the session that owns it, so
// one user's data can never bleed into another's in a multi-session process.
// All methods are safe for concurrent use.

// PlaygroundStore holds the current user's playground list.
type PlaygroundStore struct {
	api *Client

	mu          sync.Mutex
	playgrounds []model.Playground
	loading     bool
	err         string
}

// NewPlaygroundStore creates a PlaygroundStore backed by api.
func NewPlaygroundStore(api *Client) *PlaygroundStore {
	return &PlaygroundStore{api: api}
}

// Fetch loads the playground list for userID. Always refetches.
func (s *PlaygroundStore) Fetch(ctx context.Context, userID string) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	playgrounds, err := s.api.ListPlaygrounds(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = errorText(err, "Failed to load playgrounds")
		return
	}
	s.playgrounds = playgrounds
}

// Delete removes a playground on the server and, on success, drops it from
// the local list, returning the removed record. On failure the list is left
// untouched and the error is stored for display.
func (s *PlaygroundStore) Delete(ctx context.Context, id int64) (*model.Playground, error) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	err := s.api.DeletePlayground(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = errorText(err, "Failed to delete playground")
		return nil, err
	}

	var deleted *model.Playground
	kept := s.playgrounds[:0]
	for i := range s.playgrounds {
		if s.playgrounds[i].ID == id {
			p := s.playgrounds[i]
			deleted = &p
			continue
		}
		kept = append(kept, s.playgrounds[i])
	}
	s.playgrounds = kept

	return deleted, nil
}

// Playgrounds returns the current list.
func (s *PlaygroundStore) Playgrounds() []model.Playground {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playgrounds
}

// Loading reports whether a fetch is in flight.
func (s *PlaygroundStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the display error from the last operation, or "".
func (s *PlaygroundStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// SessionStore holds the logged-in user, if any.
type SessionStore struct {
	api *Client

	mu      sync.Mutex
	user    *model.User
	loading bool
	err     string
}

// NewSessionStore creates a SessionStore backed by api.
func NewSessionStore(api *Client) *SessionStore {
	return &SessionStore{api: api}
}

// Fetch asks the server who is logged in. A logged-out answer is not an
// error — the user just becomes nil.
func (s *SessionStore) Fetch(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	user, err := s.api.Session(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.user = nil
		s.err = errorText(err, "Failed to fetch session")
		return
	}
	s.user = user
}

// Clear drops the local user, e.g. after sign-out.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// User returns the session user, or nil when logged out.
func (s *SessionStore) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Loading reports whether a fetch is in flight.
func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the display error from the last fetch, or "".
func (s *SessionStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// errorText converts an error to a display string, preferring the server's
// own message when there is one.
func errorText(err error, fallback string) string {
	if apiErr, ok := err.(*APIError); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return fallback + ": " + err.Error()
	}
	return fallback
}
