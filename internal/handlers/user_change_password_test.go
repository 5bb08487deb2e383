package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"focusflow-backend/internal/middleware"
	"focusflow-backend/internal/models"
)

type stubUserStore struct {
	user       *models.User
	updateErr  error
	updated    bool
	updatedID  uuid.UUID
	updatedPwd string
}

func (s *stubUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, pgx.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserStore) GetBadges(ctx context.Context, userID uuid.UUID) ([]models.EarnedBadge, error) {
	return nil, nil
}

func (s *stubUserStore) UpdateProfile(ctx context.Context, user *models.User) error {
	return nil
}

func (s *stubUserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	s.updated = true
	s.updatedID = userID
	s.updatedPwd = passwordHash
	return s.updateErr
}

func (s *stubUserStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func TestUserHandler_ChangePassword_Validation(t *testing.T) {
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("CurrentPass1"), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &stubUserStore{user: &models.User{ID: userID, PasswordHash: string(hash)}}
	h := &UserHandler{userRepo: repo}

	body := `{"current_password":"CurrentPass1","new_password":"short"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/user/password", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.ChangePassword(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if repo.updated {
		t.Fatalf("password should not be updated on validation error")
	}
}

func TestUserHandler_ChangePassword_CurrentPasswordMismatch(t *testing.T) {
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("CurrentPass1"), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &stubUserStore{user: &models.User{ID: userID, PasswordHash: string(hash)}}
	h := &UserHandler{userRepo: repo}

	body := `{"current_password":"WrongPass1","new_password":"NewPass123"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/user/password", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.ChangePassword(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if repo.updated {
		t.Fatalf("password should not be updated for wrong current password")
	}
}

func TestUserHandler_ChangePassword_Success(t *testing.T) {
	userID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("CurrentPass1"), 12)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &stubUserStore{user: &models.User{ID: userID, PasswordHash: string(hash)}}
	h := &UserHandler{userRepo: repo}

	body := `{"current_password":"CurrentPass1","new_password":"NewPass123"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/user/password", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.ChangePassword(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !repo.updated {
		t.Fatalf("expected password to be updated")
	}
	if repo.updatedID != userID {
		t.Fatalf("expected update for user %s, got %s", userID, repo.updatedID)
	}
	if bcrypt.CompareHashAndPassword([]byte(repo.updatedPwd), []byte("NewPass123")) != nil {
		t.Fatalf("stored hash does not match the new password")
	}
}

func TestUserHandler_UpdateMe_RejectsMalformedBody(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserStore{user: &models.User{ID: userID, FullName: "Before"}}
	h := &UserHandler{userRepo: repo}

	body := `{"full_name": "Trunc`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/user/me", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.UpdateMe(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if repo.user.FullName != "Before" {
		t.Fatalf("profile should not change on a malformed body")
	}
}

func TestUserHandler_ChangePassword_RejectsMalformedBody(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserStore{user: &models.User{ID: userID}}
	h := &UserHandler{userRepo: repo}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/user/password", strings.NewReader(`not json`))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.ChangePassword(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if repo.updated {
		t.Fatalf("password should not be updated on a malformed body")
	}
}

func TestUserHandler_UpdateMe_RejectsUnknownTheme(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserStore{user: &models.User{ID: userID, Theme: "system"}}
	h := &UserHandler{userRepo: repo}

	body := `{"theme":"solarized"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/user/me", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.UpdateMe(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}
