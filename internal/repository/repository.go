// Package repository declares the persistence interfaces the service layer
// depends on. The sqlite subpackage provides the concrete implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/omk-66/playgrounds/internal/model"
)

// UserRepository reads and writes user records.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

// AccountRepository links users to authentication providers.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	// GetAccountByProvider looks up an account by the provider's own
	// identifier, e.g. ("github", "1234567").
	GetAccountByProvider(ctx context.Context, providerID, accountID string) (*model.Account, error)
	GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) (*model.Account, error)
}

// SessionRepository manages login sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSessionByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// PlaygroundRepository reads and writes playground records.
type PlaygroundRepository interface {
	CreatePlayground(ctx context.Context, playground *model.Playground) error
	GetPlaygroundByID(ctx context.Context, id int64) (*model.Playground, error)
	ListPlaygroundsByCreator(ctx context.Context, creatorID string) ([]model.Playground, error)
	DeletePlayground(ctx context.Context, id int64) error
}
