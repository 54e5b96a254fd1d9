package auth

import (
	"context"
	"net/http"

	"github.com/omk-66/playgrounds/internal/model"
)

// SessionCookie is the name of the HttpOnly cookie carrying the session
// token.
const SessionCookie = "session"

// Resolver turns a raw session token into a user, or reports that it can't.
// The auth service implements this; the middleware depends only on the
// interface so it doesn't import the service package.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// contextKey is an unexported type for context keys. Using a package-private
// type means no other package can read or shadow the session value.
type contextKey int

const sessionUserKey contextKey = iota

// WithSession resolves the session cookie on every request and, when a valid
// session exists, stores the user on the request context.
//
// It never rejects a request: a missing, malformed, expired, or revoked token
// simply leaves the request anonymous. Each handler decides for itself
// whether an anonymous caller gets through: the public /session route says
// {user: null}, the playground routes answer 401.
func WithSession(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err == nil && cookie.Value != "" {
				if user, err := resolver.Resolve(r.Context(), cookie.Value); err == nil && user != nil {
					ctx := context.WithValue(r.Context(), sessionUserKey, user)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext retrieves the session user from the request context.
// Returns (nil, false) for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(sessionUserKey).(*model.User)
	return user, ok && user != nil
}
