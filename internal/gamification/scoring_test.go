package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"focusflow-backend/internal/models"
)

func TestFocusPercentage(t *testing.T) {
	tests := []struct {
		distractions int
		want         int
	}{
		{0, 100},
		{1, 97},
		{5, 85},
		{10, 70},
		{16, 52},
		{17, 50}, // 51-point penalty capped at 50
		{20, 50},
		{100, 50}, // cap means the score never goes below 50
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FocusPercentage(tc.distractions), "distractions=%d", tc.distractions)
	}
}

func TestEfficiency(t *testing.T) {
	assert.Equal(t, 100, Efficiency(25, 25))
	assert.Equal(t, 80, Efficiency(20, 25))
	assert.Equal(t, 48, Efficiency(12, 25))
	assert.Equal(t, 0, Efficiency(0, 25))
	assert.Equal(t, 0, Efficiency(25, 0))
	assert.Equal(t, 67, Efficiency(2, 3)) // rounds, not truncates
}

func TestSessionRating(t *testing.T) {
	tests := []struct {
		eff, focus int
		want       string
	}{
		{100, 100, "excellent"},
		{90, 90, "excellent"},
		{80, 80, "good"},
		{70, 60, "average"},
		{50, 40, "poor"},
		{20, 30, "very-poor"},
		{100, 50, "good"}, // avg 75 sits exactly on the "good" boundary
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SessionRating(tc.eff, tc.focus))
	}
}

func TestTaskCompletionXP(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tomorrow := now.Add(24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		task models.Task
		want int
	}{
		{
			name: "medium priority, medium difficulty, no due date",
			task: models.Task{XPValue: 20, Priority: models.PriorityMedium, Difficulty: models.DifficultyMedium},
			// 20 * 1.2 + 5
			want: 29,
		},
		{
			name: "on-time bonus applies",
			task: models.Task{XPValue: 20, Priority: models.PriorityMedium, Difficulty: models.DifficultyMedium, DueDate: &tomorrow},
			// 20 * 1.2 * 1.2 + 5
			want: 34,
		},
		{
			name: "overdue gets no on-time bonus",
			task: models.Task{XPValue: 20, Priority: models.PriorityMedium, Difficulty: models.DifficultyMedium, DueDate: &yesterday},
			want: 29,
		},
		{
			name: "urgent hard task on time",
			task: models.Task{XPValue: 50, Priority: models.PriorityUrgent, Difficulty: models.DifficultyHard, DueDate: &tomorrow},
			// 50 * 1.2 * 1.5 + 20
			want: 110,
		},
		{
			name: "low priority easy task",
			task: models.Task{XPValue: 10, Priority: models.PriorityLow, Difficulty: models.DifficultyEasy},
			want: 10,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TaskCompletionXP(tc.task, now))
		})
	}
}

func TestTaskCompletionXP_DueExactlyNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	due := now
	task := models.Task{XPValue: 10, Priority: models.PriorityLow, Difficulty: models.DifficultyEasy, DueDate: &due}
	// now <= dueDate counts as on time
	assert.Equal(t, 12, TaskCompletionXP(task, now))
}

func TestSessionCompletionXP_PerfectPomodoro(t *testing.T) {
	// 25-minute pomodoro, completed exactly on plan, zero distractions:
	// round(50 * 1.5 * 1.3 * 1.0) + 10 = round(97.5) + 10 = 108
	s := models.FocusSession{
		Type:            models.TypePomodoro,
		PlannedDuration: 25,
		ActualDuration:  25,
		Status:          models.SessionCompleted,
	}
	assert.Equal(t, 108, SessionCompletionXP(s))
}

func TestSessionCompletionXP_Multipliers(t *testing.T) {
	tests := []struct {
		name string
		s    models.FocusSession
		want int
	}{
		{
			name: "deep work boosts base",
			s: models.FocusSession{
				Type: models.TypeDeepWork, PlannedDuration: 60, ActualDuration: 60,
				Status: models.SessionCompleted,
			},
			// 120 * 1.5 * 1.3 * 1.2 + 10 = 280.8 + 10
			want: 291,
		},
		{
			name: "break sessions earn half",
			s: models.FocusSession{
				Type: models.TypeBreak, PlannedDuration: 10, ActualDuration: 10,
				Status: models.SessionCompleted,
			},
			// 20 * 1.5 * 1.3 * 0.5 + 10 = 19.5 + 10 = 29.5 -> 30
			want: 30,
		},
		{
			name: "short actual duration is penalized",
			s: models.FocusSession{
				Type: models.TypeCustom, PlannedDuration: 60, ActualDuration: 20,
				Status: models.SessionCompleted,
			},
			// eff 33 -> x0.7, focus 100 -> x1.3: 120*0.7*1.3 + 10 = 109.2 + 10
			want: 119,
		},
		{
			name: "heavy distractions cut the focus multiplier",
			s: models.FocusSession{
				Type: models.TypeStudy, PlannedDuration: 50, ActualDuration: 50,
				Status:  models.SessionCompleted,
				Metrics: models.SessionMetrics{DistractionCount: 15},
			},
			// focus 55 -> x0.8: 100 * 1.5 * 0.8 * 1.1 + 10 = 132 + 10
			want: 142,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SessionCompletionXP(tc.s))
		})
	}
}

func TestSessionCompletionXP_NoCompletionBonusWhenNotCompleted(t *testing.T) {
	s := models.FocusSession{
		Type: models.TypePomodoro, PlannedDuration: 25, ActualDuration: 25,
		Status: models.SessionCancelled,
	}
	assert.Equal(t, 98, SessionCompletionXP(s))
}
