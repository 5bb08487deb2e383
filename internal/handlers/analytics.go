package handlers

import (
	"net/http"
	"time"

	"focusflow-backend/internal/middleware"
	"focusflow-backend/internal/repository"
)

type AnalyticsHandler struct {
	sessionRepo *repository.SessionRepo
	taskRepo    *repository.TaskRepo
}

func NewAnalyticsHandler(sessionRepo *repository.SessionRepo, taskRepo *repository.TaskRepo) *AnalyticsHandler {
	return &AnalyticsHandler{sessionRepo: sessionRepo, taskRepo: taskRepo}
}

// Today aggregates the current day's completed sessions and tasks.
func (h *AnalyticsHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	now := time.Now()

	stats, err := h.sessionRepo.TodayStats(r.Context(), userID, now)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	tasksCompleted, err := h.taskRepo.CountCompletedOnDay(r.Context(), userID, now)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":            now.Format("2006-01-02"),
		"sessions":        stats,
		"tasks_completed": tasksCompleted,
	})
}

// Productivity returns a per-day history of completed focus work.
func (h *AnalyticsHandler) Productivity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	days := parseIntParam(r, "days", 30)
	if days < 1 {
		days = 30
	}
	if days > 365 {
		days = 365
	}

	history, err := h.sessionRepo.ProductivityHistory(r.Context(), userID, days)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days":    days,
		"history": history,
	})
}
