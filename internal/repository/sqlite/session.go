package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/omk-66/playgrounds/internal/apperror"
	"github.com/omk-66/playgrounds/internal/model"
)

// CreateSession inserts a login session. The caller supplies the ID and token
// (the token embeds the session ID as a JWT claim, so it must exist before
// the row does); timestamps are set here.
func (db *DB) CreateSession(ctx context.Context, session *model.Session) error {
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO session (id, token, expires_at, user_id, ip_address, user_agent, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.Token,
		session.ExpiresAt,
		session.UserID,
		session.IPAddress,
		session.UserAgent,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session: %w", err)
	}

	return nil
}

// GetSessionByToken retrieves a session by its token value.
// Returns apperror.ErrNotFound for unknown tokens — including tokens whose
// row was deleted by sign-out, which is exactly how revocation works.
func (db *DB) GetSessionByToken(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, token, expires_at, user_id, ip_address, user_agent, created_at, updated_at
		 FROM session WHERE token = ?`,
		token,
	).Scan(
		&s.ID,
		&s.Token,
		&s.ExpiresAt,
		&s.UserID,
		&s.IPAddress,
		&s.UserAgent,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("session", "token")
		}
		return nil, fmt.Errorf("sqlite: getting session: %w", err)
	}

	return &s, nil
}

// DeleteSession removes a session row by token. Deleting an already-deleted
// token is not an error — sign-out is idempotent.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM session WHERE token = ?`,
		token,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session past its expiry and returns how
// many were deleted. Called opportunistically at startup — there is no
// background sweeper.
func (db *DB) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM session WHERE expires_at < ?`,
		time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: deleting expired sessions: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return affected, nil
}
