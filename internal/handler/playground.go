package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/omk-66/playgrounds/internal/apperror"
	"github.com/omk-66/playgrounds/internal/auth"
	"github.com/omk-66/playgrounds/internal/service"
	"github.com/omk-66/playgrounds/internal/validate"
)

// PlaygroundHandler exposes the playground CRUD routes.
//
// Every route follows the same shape: resolve the session user from the
// request context (the session middleware put it there), hand the parsed
// input to the service, and map the result through the envelope helpers. The
// handler itself holds no rules — validation and ownership live in the
// service layer.
type PlaygroundHandler struct {
	playgrounds *service.PlaygroundService
	logger      *slog.Logger
}

// NewPlaygroundHandler creates a PlaygroundHandler.
func NewPlaygroundHandler(playgrounds *service.PlaygroundService, logger *slog.Logger) *PlaygroundHandler {
	return &PlaygroundHandler{
		playgrounds: playgrounds,
		logger:      logger,
	}
}

// HandleCreate creates one playground for the session user.
//
// HTTP: POST /api/addPlayground
// 201 with the created row, 401 without a session, 400 with the violated
// field list on bad input.
func (h *PlaygroundHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized - Please login first"))
		return
	}

	var in validate.PlaygroundInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed(apperror.Issue{
			Field:   "body",
			Message: "Request body must be valid JSON.",
		}))
		return
	}

	playground, err := h.playgrounds.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Playground created", playground)
}

// HandleList returns the playgrounds created by the user in the path.
//
// HTTP: GET /api/playground/{userId}
// The session user must match the path user — anyone else gets 403.
func (h *PlaygroundHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized"))
		return
	}

	userID := chi.URLParam(r, "userId")

	playgrounds, err := h.playgrounds.ListForUser(r.Context(), user, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Debug("playgrounds listed",
		slog.String("userID", userID),
		slog.Int("count", len(playgrounds)),
	)

	writeSuccess(w, http.StatusOK, "", playgrounds)
}

// HandleDelete deletes one playground owned by the session user.
//
// HTTP: DELETE /api/playground/{playgroundId}
// 404 for an unknown ID (including a second delete of the same ID), 403 for
// a row owned by someone else.
func (h *PlaygroundHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Unauthorized - Please login first"))
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "playgroundId"), 10, 64)
	if err != nil {
		writeError(w, apperror.NotFound("playground", chi.URLParam(r, "playgroundId")))
		return
	}

	if err := h.playgrounds.Delete(r.Context(), user, id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Playground deleted successfully", nil)
}
