package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow-backend/internal/models"
)

func progressionWithXP(totalXP int) models.Progression {
	return models.Progression{
		Gamification: models.Gamification{
			Level:   LevelForXP(totalXP),
			TotalXP: totalXP,
		},
	}
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(999))
	assert.Equal(t, 2, LevelForXP(1000))
	assert.Equal(t, 2, LevelForXP(1999))
	assert.Equal(t, 11, LevelForXP(10000))
}

func TestAddXP(t *testing.T) {
	p := progressionWithXP(950)

	p2, res, err := AddXP(p, 60)
	require.NoError(t, err)
	assert.Equal(t, 1010, p2.Gamification.TotalXP)
	assert.Equal(t, 2, p2.Gamification.Level)
	assert.True(t, res.LevelUp)
	assert.Equal(t, 2, res.NewLevel)

	// Input snapshot untouched
	assert.Equal(t, 950, p.Gamification.TotalXP)
	assert.Equal(t, 1, p.Gamification.Level)
}

func TestAddXP_NoLevelUpWithinLevel(t *testing.T) {
	p := progressionWithXP(999)
	p2, res, err := AddXP(p, 0)
	require.NoError(t, err)
	assert.False(t, res.LevelUp)
	assert.Equal(t, 1, res.NewLevel)
	assert.Equal(t, 999, p2.Gamification.TotalXP)

	p3, res, err := AddXP(progressionWithXP(1000), 49)
	require.NoError(t, err)
	assert.False(t, res.LevelUp)
	assert.Equal(t, 2, res.NewLevel)
	assert.Equal(t, 1049, p3.Gamification.TotalXP)
}

func TestAddXP_RejectsNegative(t *testing.T) {
	p := progressionWithXP(500)
	p2, _, err := AddXP(p, -10)

	var argErr *InvalidArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, 500, p2.Gamification.TotalXP, "rejected delta must not mutate the snapshot")
}

func TestAddXP_LevelInvariantHolds(t *testing.T) {
	p := progressionWithXP(0)
	deltas := []int{10, 990, 1, 2500, 499, 0}
	for _, d := range deltas {
		var err error
		p, _, err = AddXP(p, d)
		require.NoError(t, err)
		assert.Equal(t, p.Gamification.TotalXP/1000+1, p.Gamification.Level)
	}
	assert.Equal(t, 4000, p.Gamification.TotalXP)
}

func TestUpdateStreak(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 6, d, 9, 30, 0, 0, time.UTC)
	}

	t.Run("first activity starts streak at 1", func(t *testing.T) {
		p := UpdateStreak(models.Progression{}, day(1))
		assert.Equal(t, 1, p.Gamification.StreakDays)
		require.NotNil(t, p.Gamification.LastActiveDate)
		assert.True(t, p.Gamification.LastActiveDate.Equal(day(1)))
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		p := UpdateStreak(models.Progression{}, day(1))
		p2 := UpdateStreak(p, day(1).Add(8*time.Hour))
		assert.Equal(t, 1, p2.Gamification.StreakDays)
		assert.True(t, p2.Gamification.LastActiveDate.Equal(day(1)))
	})

	t.Run("consecutive day extends streak", func(t *testing.T) {
		p := UpdateStreak(models.Progression{}, day(1))
		p = UpdateStreak(p, day(2))
		p = UpdateStreak(p, day(3))
		assert.Equal(t, 3, p.Gamification.StreakDays)
		assert.Equal(t, 3, p.Gamification.LongestStreak)
	})

	t.Run("gap resets streak but keeps longest", func(t *testing.T) {
		p := UpdateStreak(models.Progression{}, day(1))
		p = UpdateStreak(p, day(2))
		p = UpdateStreak(p, day(3))
		p = UpdateStreak(p, day(7))
		assert.Equal(t, 1, p.Gamification.StreakDays)
		assert.Equal(t, 3, p.Gamification.LongestStreak)
		assert.True(t, p.Gamification.LastActiveDate.Equal(day(7)))
	})

	t.Run("calendar day boundary, not 24 hours", func(t *testing.T) {
		lastNight := time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC)
		thisMorning := time.Date(2025, 6, 2, 0, 10, 0, 0, time.UTC)
		p := UpdateStreak(models.Progression{}, lastNight)
		p = UpdateStreak(p, thisMorning)
		assert.Equal(t, 2, p.Gamification.StreakDays)
	})
}

func TestAwardBadge_Idempotent(t *testing.T) {
	now := time.Now()
	p := models.Progression{}

	p, added := AwardBadge(p, "first-task", now)
	assert.True(t, added)
	require.Len(t, p.Gamification.Badges, 1)

	p2, added := AwardBadge(p, "first-task", now.Add(time.Hour))
	assert.False(t, added)
	assert.Len(t, p2.Gamification.Badges, 1)
	assert.True(t, p2.Gamification.Badges[0].EarnedAt.Equal(now), "original earn timestamp retained")
}

func TestEvaluateBadges_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		p       models.Progression
		counts  map[string]int
		wantIDs []string
	}{
		{
			name:    "exactly 10 completed tasks",
			p:       models.Progression{Stats: models.Stats{CompletedTasks: 10}},
			wantIDs: []string{"first-task", "tasks-10"},
		},
		{
			name:    "nine tasks is not enough for tasks-10",
			p:       models.Progression{Stats: models.Stats{CompletedTasks: 9}},
			wantIDs: []string{"first-task"},
		},
		{
			name:    "first completed session",
			p:       models.Progression{Stats: models.Stats{TotalSessions: 1}},
			wantIDs: []string{"first-session"},
		},
		{
			name:    "ten hours of focus time",
			p:       models.Progression{Stats: models.Stats{TotalFocusTime: 600}},
			wantIDs: []string{"focus-time-10"},
		},
		{
			name: "week-long streak",
			p: models.Progression{Gamification: models.Gamification{
				Level: 1, StreakDays: 7,
			}},
			wantIDs: []string{"streak-3", "streak-7"},
		},
		{
			name: "level badges",
			p: models.Progression{Gamification: models.Gamification{
				Level: 10, TotalXP: 9000,
			}},
			wantIDs: []string{"level-5", "level-10"},
		},
		{
			name:    "category badges from task counts",
			p:       models.Progression{Stats: models.Stats{CompletedTasks: 30}},
			counts:  map[string]int{"social": 10, "fitness": 20},
			wantIDs: []string{"first-task", "tasks-10", "social-butterfly", "fitness-fanatic"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateBadges(tc.p, tc.counts)
			ids := make([]string, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.ElementsMatch(t, tc.wantIDs, ids)
		})
	}
}

func TestEvaluateBadges_NeverReturnsHeldBadges(t *testing.T) {
	p := models.Progression{Stats: models.Stats{CompletedTasks: 10}}

	first := EvaluateBadges(p, nil)
	require.NotEmpty(t, first)
	for _, b := range first {
		p, _ = AwardBadge(p, b.ID, time.Now())
	}

	second := EvaluateBadges(p, nil)
	assert.Empty(t, second, "already-held badges must not be re-earned")
}

func TestEventBadges(t *testing.T) {
	at := func(hour int) *time.Time {
		t := time.Date(2025, 6, 1, hour, 15, 0, 0, time.UTC)
		return &t
	}

	ids := func(badges []models.Badge) []string {
		out := make([]string, 0, len(badges))
		for _, b := range badges {
			out = append(out, b.ID)
		}
		return out
	}

	t.Run("early morning start", func(t *testing.T) {
		s := models.FocusSession{
			Status: models.SessionCompleted, StartTime: at(6), EndTime: at(7),
			Metrics: models.SessionMetrics{DistractionCount: 2},
		}
		assert.ElementsMatch(t, []string{"early-bird"}, ids(EventBadges(s)))
	})

	t.Run("late night completion with no distractions", func(t *testing.T) {
		s := models.FocusSession{
			Status: models.SessionCompleted, StartTime: at(21), EndTime: at(22),
		}
		assert.ElementsMatch(t, []string{"night-owl", "distraction-free"}, ids(EventBadges(s)))
	})

	t.Run("cancelled sessions earn nothing", func(t *testing.T) {
		s := models.FocusSession{Status: models.SessionCancelled, StartTime: at(6), EndTime: at(23)}
		assert.Empty(t, EventBadges(s))
	})
}

func TestProgress(t *testing.T) {
	p := models.Progression{Stats: models.Stats{CompletedTasks: 5}}
	prog := Progress(p, nil)

	assert.Equal(t, models.BadgeProgress{Current: 5, Required: 10, Percentage: 50}, prog["tasks-10"])
	assert.Equal(t, models.BadgeProgress{Current: 1, Required: 1, Percentage: 100}, prog["first-task"])
	assert.Equal(t, models.BadgeProgress{Current: 0, Required: 30, Percentage: 0}, prog["streak-30"])
}

func TestProgress_RoundsPercentage(t *testing.T) {
	// 6 of 7 days is 85.7%, which should round up rather than truncate.
	p := models.Progression{Gamification: models.Gamification{StreakDays: 6}}
	prog := Progress(p, nil)

	assert.Equal(t, models.BadgeProgress{Current: 6, Required: 7, Percentage: 86}, prog["streak-7"])
}

func TestCatalogIsComplete(t *testing.T) {
	assert.Len(t, Catalog, 20)

	seen := make(map[string]bool)
	for _, b := range Catalog {
		assert.False(t, seen[b.ID], "duplicate badge id %q", b.ID)
		seen[b.ID] = true
	}

	for _, th := range thresholds {
		_, ok := BadgeByID(th.badgeID)
		assert.True(t, ok, "threshold for unknown badge %q", th.badgeID)
	}
}
