package gamification

import (
	"math"
	"time"

	"focusflow-backend/internal/models"
)

// Scoring rules are pure functions: no I/O, no state. They are the single
// source of truth for how XP and session quality metrics are computed.

// TaskCompletionXP computes the XP awarded for completing a task.
// Base XP was derived from priority at creation time (task.XPValue); the
// completion-time bonuses are: on-time ×1.2, difficulty multiplier, and a
// flat priority bonus.
func TaskCompletionXP(task models.Task, now time.Time) int {
	base := float64(task.XPValue)

	if task.DueDate != nil && !now.After(*task.DueDate) {
		base *= 1.2
	}

	switch task.Difficulty {
	case models.DifficultyMedium:
		base *= 1.2
	case models.DifficultyHard:
		base *= 1.5
	}

	switch task.Priority {
	case models.PriorityMedium:
		base += 5
	case models.PriorityHigh:
		base += 10
	case models.PriorityUrgent:
		base += 20
	}

	xp := int(math.Round(base))
	if xp < 0 {
		xp = 0
	}
	return xp
}

// SessionCompletionXP computes the XP for a finished focus session.
// The base is 2 XP per planned minute; planned rather than actual duration is
// used so that finishing a touch early is not penalized.
func SessionCompletionXP(s models.FocusSession) int {
	base := float64(s.PlannedDuration * 2)

	eff := Efficiency(s.ActualDuration, s.PlannedDuration)
	switch {
	case eff >= 100:
		base *= 1.5
	case eff >= 80:
		base *= 1.2
	case eff < 50:
		base *= 0.7
	}

	focus := FocusPercentage(s.Metrics.DistractionCount)
	switch {
	case focus >= 95:
		base *= 1.3
	case focus >= 80:
		base *= 1.1
	case focus < 60:
		base *= 0.8
	}

	base *= typeMultiplier(s.Type)

	if s.Status == models.SessionCompleted {
		base += 10
	}

	xp := int(math.Round(base))
	if xp < 0 {
		xp = 0
	}
	return xp
}

func typeMultiplier(t models.SessionType) float64 {
	switch t {
	case models.TypeDeepWork:
		return 1.2
	case models.TypeStudy:
		return 1.1
	case models.TypeBreak:
		return 0.5
	default: // pomodoro, custom
		return 1.0
	}
}

// Efficiency is actual/planned duration as a rounded percentage.
func Efficiency(actual, planned int) int {
	if planned == 0 || actual == 0 {
		return 0
	}
	return int(math.Round(float64(actual) / float64(planned) * 100))
}

// FocusPercentage maps a distraction count to a 0-100 focus score. Each
// distraction costs 3 points, with the total penalty capped at 50.
func FocusPercentage(distractionCount int) int {
	penalty := distractionCount * 3
	if penalty > 50 {
		penalty = 50
	}
	score := 100 - penalty
	if score < 0 {
		score = 0
	}
	return score
}

// SessionRating buckets the average of efficiency and focus percentage.
func SessionRating(efficiency, focusPercentage int) string {
	avg := float64(efficiency+focusPercentage) / 2
	switch {
	case avg >= 90:
		return "excellent"
	case avg >= 75:
		return "good"
	case avg >= 60:
		return "average"
	case avg >= 40:
		return "poor"
	default:
		return "very-poor"
	}
}
