package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionActive    SessionStatus = "active"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionCancelled
}

type SessionType string

const (
	TypePomodoro SessionType = "pomodoro"
	TypeCustom   SessionType = "custom"
	TypeDeepWork SessionType = "deep-work"
	TypeStudy    SessionType = "study"
	TypeBreak    SessionType = "break"
)

func ValidSessionType(t SessionType) bool {
	switch t {
	case TypePomodoro, TypeCustom, TypeDeepWork, TypeStudy, TypeBreak:
		return true
	}
	return false
}

type DistractionCategory string

const (
	DistractionWebsite      DistractionCategory = "website"
	DistractionNotification DistractionCategory = "notification"
	DistractionManual       DistractionCategory = "manual"
	DistractionOther        DistractionCategory = "other"
)

func ValidDistractionCategory(c DistractionCategory) bool {
	switch c {
	case DistractionWebsite, DistractionNotification, DistractionManual, DistractionOther:
		return true
	}
	return false
}

type Distraction struct {
	Timestamp       time.Time           `json:"timestamp"`
	Category        DistractionCategory `json:"category"`
	Description     string              `json:"description"`
	DurationSeconds int                 `json:"duration_seconds"`
}

// SessionTask links work done during a session to a task record.
type SessionTask struct {
	TaskID    uuid.UUID `json:"task_id"`
	TimeSpent int       `json:"time_spent"` // minutes
	Completed bool      `json:"completed"`
}

type SessionMetrics struct {
	DistractionCount int           `json:"distraction_count"`
	Distractions     []Distraction `json:"distractions"`
	FocusScore       int           `json:"focus_score"` // 0-100
}

type SessionNotes struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

type FocusSession struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	Title           string         `json:"title"`
	Type            SessionType    `json:"type"`
	PlannedDuration int            `json:"planned_duration"` // minutes, 1-480
	ActualDuration  int            `json:"actual_duration"`  // minutes, derived at completion
	Status          SessionStatus  `json:"status"`
	StartTime       *time.Time     `json:"start_time"`
	EndTime         *time.Time     `json:"end_time"`
	PausedAt        *time.Time     `json:"paused_at"`
	ResumedAt       *time.Time     `json:"resumed_at"`
	Tasks           []SessionTask  `json:"tasks"`
	Metrics         SessionMetrics `json:"metrics"`
	Notes           SessionNotes   `json:"notes"`
	XPEarned        int            `json:"xp_earned"`
	CreatedAt       time.Time      `json:"created_at"`
}
