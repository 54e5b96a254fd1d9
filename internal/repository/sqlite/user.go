package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/omk-66/playgrounds/internal/apperror"
	"github.com/omk-66/playgrounds/internal/model"
	"github.com/omk-66/playgrounds/internal/repository"
)

// Compile-time checks that *DB satisfies the auth-side repository interfaces.
var (
	_ repository.UserRepository    = (*DB)(nil)
	_ repository.AccountRepository = (*DB)(nil)
	_ repository.SessionRepository = (*DB)(nil)
)

// CreateUser inserts a new user. The ID and timestamps are generated here and
// written back onto the caller's struct (pointer receiver on the model).
//
// The UNIQUE constraint on email is translated to apperror.ErrConflict so the
// handler can answer 409 instead of 500 when two sign-ups race on the same
// address.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user (id, name, email, email_verified, image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.EmailVerified,
		user.Image,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("a user with email %s already exists", user.Email))
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, email_verified, image, created_at, updated_at
		 FROM user WHERE id = ?`,
		id,
	)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, email_verified, image, created_at, updated_at
		 FROM user WHERE email = ?`,
		email,
	)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}
	return user, nil
}

// UpdateUser writes provider-driven profile changes (name, image, verified
// flag) back to an existing row.
func (db *DB) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE user SET name = ?, email = ?, email_verified = ?, image = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name,
		user.Email,
		user.EmailVerified,
		user.Image,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// CreateAccount links a user to an authentication provider.
func (db *DB) CreateAccount(ctx context.Context, account *model.Account) error {
	account.ID = xid.New().String()
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO account
		   (id, account_id, provider_id, user_id, access_token, refresh_token, scope, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.AccountID,
		account.ProviderID,
		account.UserID,
		account.AccessToken,
		account.RefreshToken,
		account.Scope,
		account.Password,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("account already linked for provider %s", account.ProviderID))
		}
		return fmt.Errorf("sqlite: inserting account: %w", err)
	}

	return nil
}

// GetAccountByProvider looks up an account by the provider's own identifier,
// e.g. ("github", "1234567"). This is how a returning OAuth login finds its
// existing app user.
func (db *DB) GetAccountByProvider(ctx context.Context, providerID, accountID string) (*model.Account, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, account_id, provider_id, user_id, access_token, refresh_token, scope, password, created_at, updated_at
		 FROM account WHERE provider_id = ? AND account_id = ?`,
		providerID, accountID,
	)
	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", accountID)
		}
		return nil, fmt.Errorf("sqlite: getting account by provider: %w", err)
	}
	return account, nil
}

// GetAccountByUserAndProvider finds the account a user holds with a provider,
// e.g. the "credential" account carrying the password hash.
func (db *DB) GetAccountByUserAndProvider(ctx context.Context, userID, providerID string) (*model.Account, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, account_id, provider_id, user_id, access_token, refresh_token, scope, password, created_at, updated_at
		 FROM account WHERE user_id = ? AND provider_id = ?`,
		userID, providerID,
	)
	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", userID)
		}
		return nil, fmt.Errorf("sqlite: getting account for user %s: %w", userID, err)
	}
	return account, nil
}

// scanUser reads a user row. Works with QueryRowContext results.
func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.EmailVerified,
		&u.Image,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanAccount(row *sql.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(
		&a.ID,
		&a.AccountID,
		&a.ProviderID,
		&a.UserID,
		&a.AccessToken,
		&a.RefreshToken,
		&a.Scope,
		&a.Password,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
// modernc.org/sqlite surfaces these as plain errors with a recognizable
// message prefix, so string matching is the practical check.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
