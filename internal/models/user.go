package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID    `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	FullName     string       `json:"full_name"`
	AvatarURL    *string      `json:"avatar_url"`
	Timezone     string       `json:"timezone"`
	Theme        string       `json:"theme"`
	IsVerified   bool         `json:"is_verified"`
	IsActive     bool         `json:"is_active"`
	AuthProvider string       `json:"auth_provider"`
	GoogleID     *string      `json:"-"`
	Gamification Gamification `json:"gamification"`
	Stats        Stats        `json:"stats"`
	CreatedAt    time.Time    `json:"created_at"`
	LastLoginAt  *time.Time   `json:"last_login_at"`
}

// Gamification holds the per-user leveling state. Level is always derived
// from TotalXP (1000 XP per level, linear); the engine keeps them in sync.
type Gamification struct {
	Level          int           `json:"level"`
	TotalXP        int           `json:"total_xp"`
	StreakDays     int           `json:"streak_days"`
	LongestStreak  int           `json:"longest_streak"`
	LastActiveDate *time.Time    `json:"last_active_date"`
	Badges         []EarnedBadge `json:"badges"`
}

// Stats are lifetime counters. They only ever go up.
type Stats struct {
	TotalFocusTime     int `json:"total_focus_time"` // minutes
	TotalSessions      int `json:"total_sessions"`
	TotalTasks         int `json:"total_tasks"`
	CompletedTasks     int `json:"completed_tasks"`
	DistractionsLogged int `json:"distractions_logged"`
}

// Progression is the snapshot the gamification engine operates on. Callers
// load it, run engine functions over it, and persist the returned copy.
type Progression struct {
	Gamification Gamification `json:"gamification"`
	Stats        Stats        `json:"stats"`
}

type EarnedBadge struct {
	ID       string    `json:"id"`
	EarnedAt time.Time `json:"earned_at"`
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}
