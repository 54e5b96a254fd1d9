package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/omk-66/playgrounds/internal/apperror"
	"github.com/omk-66/playgrounds/internal/auth"
	"github.com/omk-66/playgrounds/internal/service"
)

// AuthHandler exposes the session provider's routes under /api/auth/* plus
// the public GET /session probe.
//
// ROUTES:
//   - GET  /api/auth/github           → redirect to GitHub's authorization page
//   - GET  /api/auth/github/callback  → complete the OAuth flow, set cookie
//   - POST /api/auth/sign-up          → email/password registration
//   - POST /api/auth/sign-in          → email/password login
//   - POST /api/auth/sign-out         → revoke the session, clear cookie
//   - GET  /session                   → {user} or {user: null}, never an error
type AuthHandler struct {
	github *auth.GitHubProvider
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(github *auth.GitHubProvider, authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		github: github,
		auth:   authSvc,
		logger: logger,
	}
}

// credentialsRequest is the body for sign-up and sign-in.
type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleGitHubLogin redirects the browser to GitHub.
//
// The random state lands in a short-lived cookie; the callback verifies it
// round-tripped unchanged, which blocks CSRF-initiated flows.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: verify the state, exchange
// the code for a GitHub profile, login-or-register, set the session cookie,
// and bounce back to the app.
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch or missing state cookie")
		writeError(w, apperror.Unauthorized("invalid OAuth state"))
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.Unauthorized("missing OAuth code"))
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		writeError(w, apperror.Upstream("authentication failed"))
		return
	}

	result, err := h.auth.LoginOrRegisterGitHub(r.Context(), ghUser, requestMeta(r))
	if err != nil {
		h.logger.Error("auth callback: login failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Session.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleSignUp registers a new email/password user and logs them in.
//
// HTTP: POST /api/auth/sign-up
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed(apperror.Issue{
			Field:   "body",
			Message: "Request body must be valid JSON.",
		}))
		return
	}

	result, err := h.auth.SignUp(r.Context(), req.Name, req.Email, req.Password, requestMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Session.Token)
	writeSuccess(w, http.StatusCreated, "Account created", result.User)
}

// HandleSignIn authenticates an email/password pair.
//
// HTTP: POST /api/auth/sign-in
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed(apperror.Issue{
			Field:   "body",
			Message: "Request body must be valid JSON.",
		}))
		return
	}

	result, err := h.auth.SignIn(r.Context(), req.Email, req.Password, requestMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.Session.Token)
	writeSuccess(w, http.StatusOK, "Signed in", result.User)
}

// HandleSignOut revokes the current session and clears the cookie.
//
// HTTP: POST /api/auth/sign-out
// POST, not GET — sign-out changes state, and GETs get pre-fetched.
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		if err := h.auth.SignOut(r.Context(), cookie.Value); err != nil {
			h.logger.Error("sign-out failed", slog.String("error", err.Error()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeSuccess(w, http.StatusOK, "Signed out", nil)
}

// HandleSession reports who is logged in.
//
// HTTP: GET /session
// Always 200: {"user": {...}} for a live session, {"user": null} otherwise.
// The front end calls this on load to decide what to render, so it must
// never be an error.
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// setSessionCookie stores the session token in an HttpOnly cookie.
// HttpOnly keeps it away from JavaScript; SameSite=Lax keeps it off
// cross-site POSTs. Secure should be set behind HTTPS in production.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// requestMeta extracts the client address and user agent recorded on the
// session row. RemoteAddr is already the real client IP when the RealIP
// middleware runs first.
func requestMeta(r *http.Request) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
