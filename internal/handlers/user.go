package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"focusflow-backend/internal/middleware"
	"focusflow-backend/internal/models"
)

// UserStore is the slice of the user repository the profile endpoints need.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetBadges(ctx context.Context, userID uuid.UUID) ([]models.EarnedBadge, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type UserHandler struct {
	userRepo UserStore
}

func NewUserHandler(userRepo UserStore) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	badges, err := h.userRepo.GetBadges(r.Context(), userID)
	if err == nil {
		user.Gamification.Badges = badges
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	var update struct {
		FullName string  `json:"full_name"`
		Avatar   *string `json:"avatar_url"`
		Timezone string  `json:"timezone"`
		Theme    string  `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if update.FullName != "" {
		user.FullName = update.FullName
	}
	if update.Avatar != nil {
		user.AvatarURL = update.Avatar
	}
	if update.Timezone != "" {
		user.Timezone = update.Timezone
	}
	if update.Theme != "" {
		if update.Theme != "light" && update.Theme != "dark" && update.Theme != "system" {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Theme must be light, dark or system", r))
			return
		}
		user.Theme = update.Theme
	}

	if err := h.userRepo.UpdateProfile(r.Context(), user); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update profile", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Current password is incorrect", r))
		return
	}

	if len(req.NewPassword) < 8 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Password must be at least 8 characters", r))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to hash password", r))
		return
	}

	h.userRepo.UpdatePassword(r.Context(), userID, string(hash))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	h.userRepo.Delete(r.Context(), userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
