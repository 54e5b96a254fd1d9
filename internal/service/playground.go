// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services enforce the rules
// (validation, ownership) and talk to repositories through interfaces. The
// service layer never imports net/http and never sees a status code — it
// returns apperror values that the handler maps in one place.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omk-66/playgrounds/internal/apperror"
	"github.com/omk-66/playgrounds/internal/model"
	"github.com/omk-66/playgrounds/internal/repository"
	"github.com/omk-66/playgrounds/internal/validate"
)

// PlaygroundService handles playground creation, listing, and deletion.
type PlaygroundService struct {
	repo   repository.PlaygroundRepository
	logger *slog.Logger
}

// NewPlaygroundService creates a PlaygroundService. The caller decides which
// repository implementation to inject — sqlite in production, a mock in tests.
func NewPlaygroundService(repo repository.PlaygroundRepository, logger *slog.Logger) *PlaygroundService {
	return &PlaygroundService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates the form and inserts exactly one playground row owned by
// userID. The creator is set here, once, and nothing ever reassigns it.
//
// Validation runs against the shared contract in internal/validate — the same
// rules the client evaluates before submitting. The client's check is
// advisory; this one is the authority.
//
// Duplicate names per creator are allowed: two concurrent creates with the
// same name both succeed, racing only at the database's row-insert level.
func (s *PlaygroundService) Create(ctx context.Context, userID string, in validate.PlaygroundInput) (*model.Playground, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("Unauthorized - Please login first")
	}

	form, issues := validate.Playground(in)
	if len(issues) > 0 {
		return nil, apperror.ValidationFailed(issues...)
	}

	playground := &model.Playground{
		Name:        form.Name,
		Description: form.Description,
		Visibility:  form.Visibility,
		Tags:        form.Tags,
		IsFeatured:  form.IsFeatured,
		CreatorID:   userID,
	}

	if err := s.repo.CreatePlayground(ctx, playground); err != nil {
		s.logger.Error("failed to create playground",
			slog.String("creatorID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating playground: %w", err)
	}

	s.logger.Info("playground created",
		slog.Int64("id", playground.ID),
		slog.String("name", playground.Name),
		slog.String("creatorID", playground.CreatorID),
	)

	return playground, nil
}

// ListForUser returns every playground created by userID.
//
// Callers may only list their own playgrounds: a valid session for a
// different user is forbidden, not an empty list. The result set is unbounded
// — no pagination at this scope.
func (s *PlaygroundService) ListForUser(ctx context.Context, caller *model.User, userID string) ([]model.Playground, error) {
	if caller == nil {
		return nil, apperror.Unauthorized("Unauthorized")
	}
	if !Can(caller, ActionList, &model.Playground{CreatorID: userID}) {
		return nil, apperror.Forbidden("Unauthorized access")
	}

	playgrounds, err := s.repo.ListPlaygroundsByCreator(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list playgrounds",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing playgrounds: %w", err)
	}

	return playgrounds, nil
}

// Delete removes a playground owned by the caller.
//
// Lookup happens before the ownership check so a missing row is 404 and a row
// owned by someone else is 403; the caller learns the row exists. Deleting an
// already-deleted ID is 404, not success.
func (s *PlaygroundService) Delete(ctx context.Context, caller *model.User, id int64) error {
	if caller == nil {
		return apperror.Unauthorized("Unauthorized - Please login first")
	}

	playground, err := s.repo.GetPlaygroundByID(ctx, id)
	if err != nil {
		return err
	}

	if !Can(caller, ActionDelete, playground) {
		return apperror.Forbidden("You are not authorized to delete this playground")
	}

	if err := s.repo.DeletePlayground(ctx, id); err != nil {
		return err
	}

	s.logger.Info("playground deleted",
		slog.Int64("id", id),
		slog.String("creatorID", playground.CreatorID),
	)

	return nil
}
