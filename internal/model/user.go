// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered user account.
//
// Users are created by the auth subsystem on first login — either through the
// GitHub OAuth flow or through email/password sign-up. This application never
// mutates a user record outside of provider-driven profile updates.
//
// WHY ID string (not an auto-increment integer)?
// We generate our own xid for every user so that primary keys are not tied to
// any identity provider's numbering scheme. The provider-specific identifier
// lives on the Account row instead.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Image         string    `json:"image"` // avatar URL, may be empty
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Session is a server-side login session.
//
// One row is created per login and deleted on sign-out. The token column
// holds the signed session token the browser carries in an HttpOnly cookie.
// Resolving a request means validating that token AND finding this row, so
// deleting the row revokes the session immediately even if the token itself
// has not expired yet.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"` // never serialized to clients
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Account links a User to one authentication provider.
//
// A user signing in with GitHub gets an account with ProviderID "github" and
// AccountID set to GitHub's numeric user ID. A user signing up with email and
// password gets a "credential" account whose Password field holds the bcrypt
// hash. One user can hold several accounts (one per provider).
type Account struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"accountId"`  // provider's identifier for the user
	ProviderID   string    `json:"providerId"` // "github" or "credential"
	UserID       string    `json:"userId"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	Scope        string    `json:"-"`
	Password     string    `json:"-"` // bcrypt hash, credential accounts only
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Account provider identifiers.
const (
	ProviderGitHub     = "github"
	ProviderCredential = "credential"
)

// Verification is a pending verification token (e.g. for email verification).
// The table is part of the auth schema contract; no flow in this codebase
// writes to it yet.
type Verification struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	Value      string    `json:"value"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
