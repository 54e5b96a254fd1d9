package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/omk-66/playgrounds/internal/apperror"
	"github.com/omk-66/playgrounds/internal/model"
	"github.com/omk-66/playgrounds/internal/repository"
)

var _ repository.PlaygroundRepository = (*DB)(nil)

// CreatePlayground inserts one playground row.
//
// Unlike the other tables, playgrounds use an auto-increment integer primary
// key, so the ID comes back from the database via LastInsertId rather than
// being generated in Go. Tags are stored as a JSON array in a TEXT column.
//
// There is deliberately no uniqueness on (creator_id, name): two creates with
// the same name both succeed.
func (db *DB) CreatePlayground(ctx context.Context, playground *model.Playground) error {
	now := time.Now()
	playground.CreatedAt = now
	playground.UpdatedAt = now

	if playground.Tags == nil {
		playground.Tags = []string{}
	}
	tags, err := json.Marshal(playground.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: encoding tags: %w", err)
	}

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO playgrounds (name, description, visibility, tags, is_featured, creator_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		playground.Name,
		playground.Description,
		string(playground.Visibility),
		string(tags),
		playground.IsFeatured,
		playground.CreatorID,
		playground.CreatedAt,
		playground.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating playground: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading playground id: %w", err)
	}
	playground.ID = id

	return nil
}

// GetPlaygroundByID retrieves a single playground.
// Returns apperror.ErrNotFound if no row exists with that ID.
func (db *DB) GetPlaygroundByID(ctx context.Context, id int64) (*model.Playground, error) {
	var (
		p       model.Playground
		rawTags string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, visibility, tags, is_featured, creator_id, created_at, updated_at
		 FROM playgrounds WHERE id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Visibility,
		&rawTags,
		&p.IsFeatured,
		&p.CreatorID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("playground", id)
		}
		return nil, fmt.Errorf("sqlite: getting playground %d: %w", id, err)
	}

	if err := json.Unmarshal([]byte(rawTags), &p.Tags); err != nil {
		return nil, fmt.Errorf("sqlite: decoding tags for playground %d: %w", id, err)
	}

	return &p, nil
}

// ListPlaygroundsByCreator returns every playground created by the given
// user, newest first. No pagination — the result set is bounded only by how
// many playgrounds one user creates.
func (db *DB) ListPlaygroundsByCreator(ctx context.Context, creatorID string) ([]model.Playground, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, visibility, tags, is_featured, creator_id, created_at, updated_at
		 FROM playgrounds
		 WHERE creator_id = ?
		 ORDER BY created_at DESC`,
		creatorID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing playgrounds: %w", err)
	}
	defer rows.Close()

	playgrounds := []model.Playground{}
	for rows.Next() {
		var (
			p       model.Playground
			rawTags string
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Visibility, &rawTags,
			&p.IsFeatured, &p.CreatorID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning playground row: %w", err)
		}
		if err := json.Unmarshal([]byte(rawTags), &p.Tags); err != nil {
			return nil, fmt.Errorf("sqlite: decoding tags for playground %d: %w", p.ID, err)
		}
		playgrounds = append(playgrounds, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating playgrounds: %w", err)
	}

	return playgrounds, nil
}

// DeletePlayground removes a playground row by ID.
// Deleting a row that no longer exists returns apperror.ErrNotFound — a
// second delete of the same ID is 404, not success.
func (db *DB) DeletePlayground(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM playgrounds WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting playground %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("playground", id)
	}

	return nil
}
