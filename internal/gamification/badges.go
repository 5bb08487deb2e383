package gamification

import (
	"focusflow-backend/internal/models"
)

// Catalog is the full set of earnable badges. It is immutable: built once at
// init and only ever read afterwards.
var Catalog = []models.Badge{
	{ID: "first-task", Name: "Getting Started", Description: "Complete your first task", Icon: "✅", Category: models.BadgeMilestone, Rarity: models.RarityCommon},
	{ID: "first-session", Name: "Focus Beginner", Description: "Complete your first focus session", Icon: "🎯", Category: models.BadgeMilestone, Rarity: models.RarityCommon},
	{ID: "streak-3", Name: "Consistency Builder", Description: "Maintain a 3-day streak", Icon: "🔥", Category: models.BadgeStreak, Rarity: models.RarityCommon},
	{ID: "streak-7", Name: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "⚡", Category: models.BadgeStreak, Rarity: models.RarityUncommon},
	{ID: "streak-30", Name: "Monthly Master", Description: "Maintain a 30-day streak", Icon: "💎", Category: models.BadgeStreak, Rarity: models.RarityRare},
	{ID: "tasks-10", Name: "Task Conqueror", Description: "Complete 10 tasks", Icon: "🏆", Category: models.BadgeMilestone, Rarity: models.RarityCommon},
	{ID: "tasks-50", Name: "Productivity Champion", Description: "Complete 50 tasks", Icon: "👑", Category: models.BadgeMilestone, Rarity: models.RarityUncommon},
	{ID: "tasks-100", Name: "Task Master", Description: "Complete 100 tasks", Icon: "🌟", Category: models.BadgeMilestone, Rarity: models.RarityRare},
	{ID: "focus-time-10", Name: "Focused Mind", Description: "Accumulate 10 hours of focus time", Icon: "🧠", Category: models.BadgeFocus, Rarity: models.RarityCommon},
	{ID: "focus-time-50", Name: "Deep Worker", Description: "Accumulate 50 hours of focus time", Icon: "🎪", Category: models.BadgeFocus, Rarity: models.RarityUncommon},
	{ID: "focus-time-100", Name: "Focus Legend", Description: "Accumulate 100 hours of focus time", Icon: "🦅", Category: models.BadgeFocus, Rarity: models.RarityEpic},
	{ID: "perfect-day", Name: "Perfect Day", Description: "Complete all tasks for a day", Icon: "🌞", Category: models.BadgeAchievement, Rarity: models.RarityUncommon},
	{ID: "early-bird", Name: "Early Bird", Description: "Start a focus session before 7 AM", Icon: "🌅", Category: models.BadgeAchievement, Rarity: models.RarityUncommon},
	{ID: "night-owl", Name: "Night Owl", Description: "Complete a focus session after 10 PM", Icon: "🦉", Category: models.BadgeAchievement, Rarity: models.RarityUncommon},
	{ID: "distraction-free", Name: "Laser Focus", Description: "Complete a session with zero distractions", Icon: "🎯", Category: models.BadgeAchievement, Rarity: models.RarityRare},
	{ID: "level-5", Name: "Rising Star", Description: "Reach level 5", Icon: "⭐", Category: models.BadgeLevel, Rarity: models.RarityCommon},
	{ID: "level-10", Name: "Expert", Description: "Reach level 10", Icon: "💫", Category: models.BadgeLevel, Rarity: models.RarityUncommon},
	{ID: "level-25", Name: "Productivity Guru", Description: "Reach level 25", Icon: "🔮", Category: models.BadgeLevel, Rarity: models.RarityEpic},
	{ID: "social-butterfly", Name: "Social Butterfly", Description: "Complete 10 social category tasks", Icon: "🦋", Category: models.BadgeTaskGroup, Rarity: models.RarityUncommon},
	{ID: "fitness-fanatic", Name: "Fitness Fanatic", Description: "Complete 20 fitness tasks", Icon: "💪", Category: models.BadgeTaskGroup, Rarity: models.RarityUncommon},
}

var catalogByID = func() map[string]models.Badge {
	m := make(map[string]models.Badge, len(Catalog))
	for _, b := range Catalog {
		m[b.ID] = b
	}
	return m
}()

// BadgeByID looks up a catalog entry.
func BadgeByID(id string) (models.Badge, bool) {
	b, ok := catalogByID[id]
	return b, ok
}

// threshold binds a badge to the aggregate it watches and the value that
// earns it. Event-triggered badges (early-bird, night-owl, distraction-free,
// perfect-day) are not listed here; they are evaluated per session/day by
// EventBadges and the session completion flow.
type threshold struct {
	badgeID  string
	required int
	current  func(p models.Progression, categoryCounts map[string]int) int
}

var thresholds = []threshold{
	{"first-task", 1, completedTasks},
	{"tasks-10", 10, completedTasks},
	{"tasks-50", 50, completedTasks},
	{"tasks-100", 100, completedTasks},
	{"first-session", 1, func(p models.Progression, _ map[string]int) int { return p.Stats.TotalSessions }},
	{"focus-time-10", 10, focusHours},
	{"focus-time-50", 50, focusHours},
	{"focus-time-100", 100, focusHours},
	{"streak-3", 3, streakDays},
	{"streak-7", 7, streakDays},
	{"streak-30", 30, streakDays},
	{"level-5", 5, level},
	{"level-10", 10, level},
	{"level-25", 25, level},
	{"social-butterfly", 10, categoryCount("social")},
	{"fitness-fanatic", 20, categoryCount("fitness")},
}

func completedTasks(p models.Progression, _ map[string]int) int { return p.Stats.CompletedTasks }

func focusHours(p models.Progression, _ map[string]int) int {
	// TotalFocusTime is minutes; badge thresholds are whole hours.
	return int(float64(p.Stats.TotalFocusTime)/60.0 + 0.5)
}

func streakDays(p models.Progression, _ map[string]int) int { return p.Gamification.StreakDays }

func level(p models.Progression, _ map[string]int) int { return p.Gamification.Level }

func categoryCount(category string) func(models.Progression, map[string]int) int {
	return func(_ models.Progression, counts map[string]int) int {
		return counts[category]
	}
}
