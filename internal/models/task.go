package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

type TaskDifficulty string

const (
	DifficultyEasy   TaskDifficulty = "easy"
	DifficultyMedium TaskDifficulty = "medium"
	DifficultyHard   TaskDifficulty = "hard"
)

var TaskCategories = []string{"work", "study", "fitness", "personal", "health", "creative", "social", "other"}

type Task struct {
	ID                uuid.UUID      `json:"id"`
	UserID            uuid.UUID      `json:"user_id"`
	Title             string         `json:"title"`
	Description       *string        `json:"description"`
	Category          string         `json:"category"`
	Priority          TaskPriority   `json:"priority"`
	Difficulty        TaskDifficulty `json:"difficulty"`
	Status            TaskStatus     `json:"status"`
	EstimatedDuration *int           `json:"estimated_duration"` // minutes
	DueDate           *time.Time     `json:"due_date"`
	Tags              []string       `json:"tags"`
	XPValue           int            `json:"xp_value"`
	CompletedAt       *time.Time     `json:"completed_at"`
	CompletionNotes   *string        `json:"completion_notes"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// BaseXPForPriority is the priority-derived base XP assigned at creation.
func BaseXPForPriority(p TaskPriority) int {
	switch p {
	case PriorityLow:
		return 10
	case PriorityMedium:
		return 20
	case PriorityHigh:
		return 30
	case PriorityUrgent:
		return 50
	default:
		return 20
	}
}

func ValidTaskCategory(c string) bool {
	for _, known := range TaskCategories {
		if c == known {
			return true
		}
	}
	return false
}
