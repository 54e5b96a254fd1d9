package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/omk-66/playgrounds/internal/apperror"
	"github.com/omk-66/playgrounds/internal/auth"
	"github.com/omk-66/playgrounds/internal/model"
	"github.com/omk-66/playgrounds/internal/repository"
)

// MinPasswordLength applies to credential sign-up.
const MinPasswordLength = 8

// AuthService is the session provider's business logic: it turns provider
// handshakes (GitHub OAuth, email/password) into user + session rows, and
// resolves session tokens back into users on every request.
type AuthService struct {
	users     repository.UserRepository
	accounts  repository.AccountRepository
	sessions  repository.SessionRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	accounts repository.AccountRepository,
	sessions repository.SessionRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		accounts:  accounts,
		sessions:  sessions,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user and the freshly issued session so the handler
// can set the cookie and respond in one step.
type AuthResult struct {
	User    *model.User
	Session *model.Session
}

// RequestMeta is the client metadata recorded on a session row.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// SignUp registers a new credential user: a user row, a "credential" account
// carrying the bcrypt hash, and a first session.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string, meta RequestMeta) (*AuthResult, error) {
	var issues []apperror.Issue
	if name == "" {
		issues = append(issues, apperror.Issue{Field: "name", Message: "Name is required."})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		issues = append(issues, apperror.Issue{Field: "email", Message: "A valid email address is required."})
	}
	if len(password) < MinPasswordLength {
		issues = append(issues, apperror.Issue{Field: "password", Message: "Password must be at least 8 characters long."})
	}
	if len(issues) > 0 {
		return nil, apperror.ValidationFailed(issues...)
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("an account with this email already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Name:  name,
		Email: email,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	account := &model.Account{
		AccountID:  user.ID,
		ProviderID: model.ProviderCredential,
		UserID:     user.ID,
		Password:   hash,
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("service/auth: creating account: %w", err)
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.issueSession(ctx, user, meta)
}

// SignIn authenticates an email/password pair and issues a new session.
//
// A wrong email and a wrong password return the same Unauthorized error so
// the response doesn't reveal which emails are registered.
func (s *AuthService) SignIn(ctx context.Context, email, password string, meta RequestMeta) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	account, err := s.accounts.GetAccountByUserAndProvider(ctx, user.ID, model.ProviderCredential)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// The user exists but only via a social provider.
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("service/auth: looking up account: %w", err)
	}

	if err := s.passwords.Verify(account.Password, password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	s.logger.Info("user signed in", slog.String("userID", user.ID))

	return s.issueSession(ctx, user, meta)
}

// LoginOrRegisterGitHub handles the OAuth callback: first login creates the
// user and a "github" account; returning logins refresh the profile fields in
// case they changed on GitHub. Either way a new session is issued.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser, meta RequestMeta) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	accountID := strconv.FormatInt(ghUser.ID, 10)

	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}

	var user *model.User
	account, err := s.accounts.GetAccountByProvider(ctx, model.ProviderGitHub, accountID)
	switch {
	case err == nil:
		// Returning login — refresh the profile from GitHub.
		user, err = s.users.GetUserByID(ctx, account.UserID)
		if err != nil {
			return nil, fmt.Errorf("service/auth: loading user for account: %w", err)
		}
		user.Name = name
		user.Image = ghUser.AvatarURL
		if ghUser.Email != "" {
			user.Email = ghUser.Email
		}
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("service/auth: updating user: %w", err)
		}

	case errors.Is(err, apperror.ErrNotFound):
		// First GitHub login — create the user and link the account.
		// GitHub verifies email addresses before exposing them, so the
		// verified flag carries over.
		user = &model.User{
			Name:          name,
			Email:         ghUser.Email,
			EmailVerified: ghUser.Email != "",
			Image:         ghUser.AvatarURL,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("service/auth: creating user (githubID=%d): %w", ghUser.ID, err)
		}
		linked := &model.Account{
			AccountID:  accountID,
			ProviderID: model.ProviderGitHub,
			UserID:     user.ID,
		}
		if err := s.accounts.CreateAccount(ctx, linked); err != nil {
			return nil, fmt.Errorf("service/auth: linking github account: %w", err)
		}

	default:
		return nil, fmt.Errorf("service/auth: looking up github account: %w", err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", ghUser.Login),
	)

	return s.issueSession(ctx, user, meta)
}

// SignOut revokes the session for the given token by deleting its row.
// Unknown tokens are a no-op — signing out twice is fine.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("service/auth: deleting session: %w", err)
	}
	return nil
}

// Resolve turns a session token into the user it belongs to, or an
// Unauthorized error. Implements auth.Resolver for the session middleware.
//
// Two checks: the token's signature and expiry (stateless), then the session
// row (stateful — catches sign-out and lets the row's own expiry win if it is
// earlier than the token's).
func (s *AuthService) Resolve(ctx context.Context, token string) (*model.User, error) {
	userID, _, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperror.Unauthorized("invalid session token")
	}

	session, err := s.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("session revoked or expired")
		}
		return nil, fmt.Errorf("service/auth: loading session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		return nil, apperror.Unauthorized("session expired")
	}
	if session.UserID != userID {
		// Token and row disagree — treat as invalid rather than trusting either.
		return nil, apperror.Unauthorized("invalid session token")
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("session user no longer exists")
		}
		return nil, fmt.Errorf("service/auth: loading session user: %w", err)
	}

	return user, nil
}

// issueSession creates a session row and its signed token for user.
func (s *AuthService) issueSession(ctx context.Context, user *model.User, meta RequestMeta) (*AuthResult, error) {
	sessionID := xid.New().String()

	token, err := s.tokens.Generate(user.ID, sessionID, auth.SessionDuration)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	session := &model.Session{
		ID:        sessionID,
		Token:     token,
		ExpiresAt: time.Now().Add(auth.SessionDuration),
		UserID:    user.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("service/auth: creating session: %w", err)
	}

	return &AuthResult{User: user, Session: session}, nil
}
