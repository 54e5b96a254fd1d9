package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/xid"

	"github.com/omk-66/playgrounds/internal/apperror"
	"github.com/omk-66/playgrounds/internal/model"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Name: "Alice", Email: "alice@example.com", Image: "https://example.com/a.png"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}

	found, err := db.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", found.Email)
	}
}

func TestCreateUser_DuplicateEmailIsConflict(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "taken@example.com")

	err := db.CreateUser(context.Background(), &model.User{Name: "Imposter", Email: "taken@example.com"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice@example.com")

	found, err := db.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}

	if _, err := db.GetUserByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByEmail(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestUpdateUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	user.Name = "Alice Updated"
	user.Image = "https://example.com/new.png"
	if err := db.UpdateUser(context.Background(), user); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}

	found, err := db.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if found.Name != "Alice Updated" {
		t.Errorf("Name = %q, want Alice Updated", found.Name)
	}
}

func TestAccountLookups(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	account := &model.Account{
		AccountID:  "1234567",
		ProviderID: model.ProviderGitHub,
		UserID:     user.ID,
	}
	if err := db.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}

	byProvider, err := db.GetAccountByProvider(context.Background(), model.ProviderGitHub, "1234567")
	if err != nil {
		t.Fatalf("GetAccountByProvider() error = %v", err)
	}
	if byProvider.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", byProvider.UserID, user.ID)
	}

	byUser, err := db.GetAccountByUserAndProvider(context.Background(), user.ID, model.ProviderGitHub)
	if err != nil {
		t.Fatalf("GetAccountByUserAndProvider() error = %v", err)
	}
	if byUser.AccountID != "1234567" {
		t.Errorf("AccountID = %q, want 1234567", byUser.AccountID)
	}

	if _, err := db.GetAccountByProvider(context.Background(), model.ProviderGitHub, "999"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetAccountByProvider(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	session := &model.Session{
		ID:        xid.New().String(),
		Token:     "token-abc",
		ExpiresAt: time.Now().Add(time.Hour),
		UserID:    user.ID,
		IPAddress: "127.0.0.1",
		UserAgent: "test-agent",
	}
	if err := db.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	found, err := db.GetSessionByToken(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("GetSessionByToken() error = %v", err)
	}
	if found.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, user.ID)
	}

	if err := db.DeleteSession(context.Background(), "token-abc"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	if _, err := db.GetSessionByToken(context.Background(), "token-abc"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("session still present after delete, err = %v", err)
	}

	// Deleting again is a no-op, not an error — sign-out is idempotent.
	if err := db.DeleteSession(context.Background(), "token-abc"); err != nil {
		t.Errorf("second DeleteSession() error = %v, want nil", err)
	}
}

func TestSessionCascadeOnUserDelete(t *testing.T) {
	// Foreign keys are on: deleting a user must take their sessions along.
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	session := &model.Session{
		ID:        xid.New().String(),
		Token:     "token-cascade",
		ExpiresAt: time.Now().Add(time.Hour),
		UserID:    user.ID,
	}
	if err := db.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if _, err := db.conn.Exec(`DELETE FROM user WHERE id = ?`, user.ID); err != nil {
		t.Fatalf("deleting user: %v", err)
	}

	if _, err := db.GetSessionByToken(context.Background(), "token-cascade"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("session survived user delete, err = %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com")

	expired := &model.Session{
		ID:        xid.New().String(),
		Token:     "token-expired",
		ExpiresAt: time.Now().Add(-time.Hour),
		UserID:    user.ID,
	}
	live := &model.Session{
		ID:        xid.New().String(),
		Token:     "token-live",
		ExpiresAt: time.Now().Add(time.Hour),
		UserID:    user.ID,
	}
	for _, s := range []*model.Session{expired, live} {
		if err := db.CreateSession(context.Background(), s); err != nil {
			t.Fatalf("CreateSession() error = %v", err)
		}
	}

	n, err := db.DeleteExpiredSessions(context.Background())
	if err != nil {
		t.Fatalf("DeleteExpiredSessions() error = %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d sessions, want 1", n)
	}

	if _, err := db.GetSessionByToken(context.Background(), "token-live"); err != nil {
		t.Errorf("live session was swept: %v", err)
	}
}
