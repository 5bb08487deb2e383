package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"focusflow-backend/internal/middleware"
	"focusflow-backend/internal/models"
	"focusflow-backend/internal/services"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req services.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	session, err := h.sessions.Create(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := parseIntParam(r, "limit", 20)
	offset := parseIntParam(r, "offset", 0)
	status := r.URL.Query().Get("status")
	sessionType := r.URL.Query().Get("type")

	sessions, total, err := h.sessions.List(r.Context(), userID, status, sessionType, limit, offset)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.Get(r.Context(), userID, sessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// GetActive returns the user's in-flight session, if any.
func (h *SessionHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	session, err := h.sessions.GetActive(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.sessions.Start)
}

func (h *SessionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.sessions.Pause)
}

func (h *SessionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.sessions.Resume)
}

func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.sessions.Cancel)
}

func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		NotesAfter string               `json:"notes_after"`
		Tasks      []models.SessionTask `json:"tasks"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
			return
		}
	}

	result, err := h.sessions.Complete(r.Context(), userID, sessionID, req.NotesAfter, req.Tasks)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) LogDistraction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Category        models.DistractionCategory `json:"category"`
		Description     string                     `json:"description"`
		DurationSeconds int                        `json:"duration_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	session, err := h.sessions.LogDistraction(r.Context(), userID, sessionID, req.Category, req.Description, req.DurationSeconds)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Delete(r.Context(), userID, sessionID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}

func (h *SessionHandler) applyTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, sessionID uuid.UUID) (*models.FocusSession, error)) {
	userID := middleware.GetUserID(r.Context())
	sessionID, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	session, err := op(r.Context(), userID, sessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid ID", r))
		return uuid.Nil, false
	}
	return id, true
}

func parseIntParam(r *http.Request, name string, defaultVal int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
