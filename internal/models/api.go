package models

import (
	"github.com/google/uuid"
)

// WebSocket message types pushed over the per-user channel.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type XPGainedEvent struct {
	XPGained int `json:"xp_gained"`
	TotalXP  int `json:"total_xp"`
	Level    int `json:"level"`
}

type LevelUpEvent struct {
	NewLevel int `json:"new_level"`
}

type BadgeEarnedEvent struct {
	Badge Badge `json:"badge"`
}

// NotificationJob is the payload queued to Redis for the worker pool.
type NotificationJob struct {
	UserID  uuid.UUID `json:"user_id"`
	Kind    string    `json:"kind"` // "badge-earned" | "level-up"
	BadgeID string    `json:"badge_id,omitempty"`
	Level   int       `json:"level,omitempty"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
