package focus

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"focusflow-backend/internal/gamification"
	"focusflow-backend/internal/models"
)

// The session lifecycle is a small state machine over a plain FocusSession
// snapshot. Every operation is copy-on-write: it takes the current snapshot
// by value and returns a new one, so a rejected transition leaves the
// caller's copy untouched. Persistence is the caller's concern.
//
//	scheduled ──start──> active ──pause──> paused
//	                     active <─resume── paused
//	                     active|paused ──complete──> completed
//	                     any non-terminal ──cancel──> cancelled

const (
	MinPlannedMinutes = 1
	MaxPlannedMinutes = 480

	maxDistractionSeconds = 3600
)

// transition names used in errors and the legality table.
const (
	opStart    = "start"
	opPause    = "pause"
	opResume   = "resume"
	opComplete = "complete"
	opCancel   = "cancel"
)

var legalFrom = map[string][]models.SessionStatus{
	opStart:    {models.SessionScheduled},
	opPause:    {models.SessionActive},
	opResume:   {models.SessionPaused},
	opComplete: {models.SessionActive, models.SessionPaused},
	opCancel:   {models.SessionScheduled, models.SessionActive, models.SessionPaused},
}

func allowed(op string, from models.SessionStatus) bool {
	for _, s := range legalFrom[op] {
		if s == from {
			return true
		}
	}
	return false
}

// New builds a session in the scheduled state. Planned duration is validated
// here so that no snapshot with an out-of-range duration ever exists.
func New(userID uuid.UUID, title string, typ models.SessionType, plannedMinutes int, tasks []models.SessionTask, now time.Time) (models.FocusSession, error) {
	if plannedMinutes < MinPlannedMinutes || plannedMinutes > MaxPlannedMinutes {
		return models.FocusSession{}, &InvalidArgumentError{
			Field:  "planned_duration",
			Reason: fmt.Sprintf("must be between %d and %d minutes, got %d", MinPlannedMinutes, MaxPlannedMinutes, plannedMinutes),
		}
	}
	if typ == "" {
		typ = models.TypePomodoro
	}
	if !models.ValidSessionType(typ) {
		return models.FocusSession{}, &InvalidArgumentError{Field: "type", Reason: fmt.Sprintf("unknown session type %q", typ)}
	}
	if title == "" {
		title = "Focus Session"
	}

	return models.FocusSession{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           title,
		Type:            typ,
		PlannedDuration: plannedMinutes,
		Status:          models.SessionScheduled,
		Tasks:           tasks,
		Metrics:         models.SessionMetrics{FocusScore: 100},
		CreatedAt:       now,
	}, nil
}

// Start moves a scheduled session to active. The "no other active or paused
// session for this user" invariant is cross-entity and is enforced at the
// storage boundary, not here.
func Start(s models.FocusSession, now time.Time) (models.FocusSession, error) {
	if !allowed(opStart, s.Status) {
		return s, &InvalidTransitionError{From: s.Status, Transition: opStart}
	}
	t := now
	s.Status = models.SessionActive
	s.StartTime = &t
	return s, nil
}

// Pause suspends an active session.
func Pause(s models.FocusSession, now time.Time) (models.FocusSession, error) {
	if !allowed(opPause, s.Status) {
		return s, &InvalidTransitionError{From: s.Status, Transition: opPause}
	}
	t := now
	s.Status = models.SessionPaused
	s.PausedAt = &t
	return s, nil
}

// Resume reactivates a paused session and clears the pause marker.
func Resume(s models.FocusSession, now time.Time) (models.FocusSession, error) {
	if !allowed(opResume, s.Status) {
		return s, &InvalidTransitionError{From: s.Status, Transition: opResume}
	}
	t := now
	s.Status = models.SessionActive
	s.ResumedAt = &t
	s.PausedAt = nil
	return s, nil
}

// Complete finalizes an active or paused session: records the end time,
// derives the actual duration, refreshes the focus score, and computes the
// earned XP exactly once. The XP computation is guarded so a snapshot that
// already carries a non-zero XPEarned is never re-scored.
func Complete(s models.FocusSession, now time.Time) (models.FocusSession, error) {
	if !allowed(opComplete, s.Status) {
		return s, &InvalidTransitionError{From: s.Status, Transition: opComplete}
	}
	t := now
	s.Status = models.SessionCompleted
	s.EndTime = &t
	s.ActualDuration = durationMinutes(s.StartTime, s.EndTime)
	s.Metrics.FocusScore = gamification.FocusPercentage(s.Metrics.DistractionCount)

	if s.XPEarned == 0 {
		s.XPEarned = gamification.SessionCompletionXP(s)
	}
	return s, nil
}

// Cancel aborts any non-terminal session. No XP is awarded.
func Cancel(s models.FocusSession, now time.Time) (models.FocusSession, error) {
	if !allowed(opCancel, s.Status) {
		return s, &InvalidTransitionError{From: s.Status, Transition: opCancel}
	}
	t := now
	s.Status = models.SessionCancelled
	s.EndTime = &t
	return s, nil
}

// LogDistraction appends a distraction to the session log and refreshes the
// focus score. Only legal while the session is active.
func LogDistraction(s models.FocusSession, now time.Time, category models.DistractionCategory, description string, durationSeconds int) (models.FocusSession, error) {
	if s.Status != models.SessionActive {
		return s, &InvalidTransitionError{From: s.Status, Transition: "log a distraction in"}
	}
	if !models.ValidDistractionCategory(category) {
		return s, &InvalidArgumentError{Field: "category", Reason: fmt.Sprintf("unknown distraction category %q", category)}
	}
	if durationSeconds < 0 || durationSeconds > maxDistractionSeconds {
		return s, &InvalidArgumentError{
			Field:  "duration",
			Reason: fmt.Sprintf("must be between 0 and %d seconds, got %d", maxDistractionSeconds, durationSeconds),
		}
	}

	log := make([]models.Distraction, len(s.Metrics.Distractions), len(s.Metrics.Distractions)+1)
	copy(log, s.Metrics.Distractions)
	s.Metrics.Distractions = append(log, models.Distraction{
		Timestamp:       now,
		Category:        category,
		Description:     description,
		DurationSeconds: durationSeconds,
	})
	s.Metrics.DistractionCount++
	s.Metrics.FocusScore = gamification.FocusPercentage(s.Metrics.DistractionCount)
	return s, nil
}

// durationMinutes is (end - start) rounded to whole minutes. It is non-zero
// only when both timestamps are present.
func durationMinutes(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	return int(math.Round(end.Sub(*start).Minutes()))
}

// Rating summarizes session quality for API responses. Defined here so the
// handler layer does not have to recompute efficiency by hand.
func Rating(s models.FocusSession) string {
	eff := gamification.Efficiency(s.ActualDuration, s.PlannedDuration)
	return gamification.SessionRating(eff, gamification.FocusPercentage(s.Metrics.DistractionCount))
}
