package handlers

import (
	"net/http"

	"focusflow-backend/internal/gamification"
	"focusflow-backend/internal/middleware"
	"focusflow-backend/internal/repository"
	"focusflow-backend/internal/services"
)

type GamificationHandler struct {
	userRepo *repository.UserRepo
	service  *services.GamificationService
}

func NewGamificationHandler(userRepo *repository.UserRepo, service *services.GamificationService) *GamificationHandler {
	return &GamificationHandler{userRepo: userRepo, service: service}
}

// Overview returns the user's level, XP and streak state plus how far they
// are into the current level.
func (h *GamificationHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	p, err := h.userRepo.GetProgression(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	levelStart := gamification.XPForLevel(p.Gamification.Level)
	nextLevelAt := gamification.XPForLevel(p.Gamification.Level + 1)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"level":            p.Gamification.Level,
		"total_xp":         p.Gamification.TotalXP,
		"xp_in_level":      p.Gamification.TotalXP - levelStart,
		"xp_for_next":      nextLevelAt - levelStart,
		"streak_days":      p.Gamification.StreakDays,
		"longest_streak":   p.Gamification.LongestStreak,
		"last_active_date": p.Gamification.LastActiveDate,
		"badges_earned":    len(p.Gamification.Badges),
		"badges_total":     len(gamification.Catalog),
		"stats":            p.Stats,
	})
}

// Badges lists the full catalog annotated with earned state and progress.
func (h *GamificationHandler) Badges(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	overviews, err := h.service.BadgeOverviews(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"badges": overviews})
}

func (h *GamificationHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 10)
	if limit > 100 {
		limit = 100
	}
	metric := r.URL.Query().Get("metric")

	entries, err := h.userRepo.Leaderboard(r.Context(), metric, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// CheckAchievements re-evaluates the threshold badges and awards any the
// user qualifies for but has not earned yet.
func (h *GamificationHandler) CheckAchievements(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	newBadges, err := h.service.CheckAchievements(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"new_badges": newBadges})
}
