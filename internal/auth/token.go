// Package auth provides the building blocks of the session provider: the
// GitHub OAuth flow, bcrypt password hashing, signed session tokens, and the
// middleware that resolves a request's cookie into a user.
//
// SESSION MODEL:
// A login issues a signed JWT whose Subject is the user ID and whose ID claim
// ("jti") is the session row's ID. The full token string is also stored in
// the session table. Resolving a request therefore checks two things:
//
//  1. the signature and expiry of the JWT (no DB needed — catches tampering)
//  2. the session row still exists and has not expired (one DB lookup —
//     catches sign-out, which deletes the row)
//
// This keeps the stateless-verification property of JWTs while still letting
// the server revoke a session immediately.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionDuration is how long an issued session lives.
const SessionDuration = 7 * 24 * time.Hour

const issuer = "playgrounds"

// TokenService signs and verifies session tokens.
//
// It holds the HMAC secret used for HS256. The same secret signs and
// verifies — keep it out of version control and rotate it periodically.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims: Subject carries the user ID, ID ("jti")
// carries the session row ID.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given user and session
// IDs, expiring after d.
func (s *TokenService) Generate(userID, sessionID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning the user ID and
// session ID it encodes.
//
// The jwt library checks the signature, the expiry, and (via the options
// below) the issuer and the algorithm. Pinning the algorithm with
// WithValidMethods blocks algorithm-confusion attacks where an attacker
// submits a token signed with "none".
func (s *TokenService) Validate(tokenStr string) (userID, sessionID string, err error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", fmt.Errorf("auth: token expired")
		}
		return "", "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", "", fmt.Errorf("auth: token has no subject")
	}
	if c.ID == "" {
		return "", "", fmt.Errorf("auth: token has no session id")
	}

	return c.Subject, c.ID, nil
}
