package gamification

import (
	"fmt"
	"time"

	"focusflow-backend/internal/models"
)

const xpPerLevel = 1000

// InvalidArgumentError rejects inputs the engine refuses to apply, such as a
// negative XP delta.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// LevelResult reports the outcome of an XP mutation.
type LevelResult struct {
	LevelUp  bool `json:"level_up"`
	NewLevel int  `json:"new_level"`
}

// LevelForXP derives the level for a total XP amount: 1000 XP per level.
func LevelForXP(totalXP int) int {
	return totalXP/xpPerLevel + 1
}

// XPForLevel is the total XP at which the given level begins.
func XPForLevel(level int) int {
	return (level - 1) * xpPerLevel
}

// AddXP applies a non-negative XP delta to a progression snapshot and
// recomputes the level. The input snapshot is never mutated.
func AddXP(p models.Progression, amount int) (models.Progression, LevelResult, error) {
	if amount < 0 {
		return p, LevelResult{}, &InvalidArgumentError{Reason: fmt.Sprintf("XP delta must be non-negative, got %d", amount)}
	}

	oldLevel := p.Gamification.Level
	p.Gamification.TotalXP += amount
	p.Gamification.Level = LevelForXP(p.Gamification.TotalXP)

	return p, LevelResult{
		LevelUp:  p.Gamification.Level > oldLevel,
		NewLevel: p.Gamification.Level,
	}, nil
}

// UpdateStreak advances the consecutive-day streak for activity on the given
// day. Same calendar day is a no-op; exactly one day since the last activity
// extends the streak; anything else (a gap, or first ever activity) resets
// it to 1.
func UpdateStreak(p models.Progression, today time.Time) models.Progression {
	last := p.Gamification.LastActiveDate
	if last != nil && sameDay(*last, today) {
		return p
	}

	if last != nil && daysBetween(*last, today) == 1 {
		p.Gamification.StreakDays++
		if p.Gamification.StreakDays > p.Gamification.LongestStreak {
			p.Gamification.LongestStreak = p.Gamification.StreakDays
		}
	} else {
		p.Gamification.StreakDays = 1
	}

	t := today
	p.Gamification.LastActiveDate = &t
	return p
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func daysBetween(earlier, later time.Time) int {
	e := time.Date(earlier.Year(), earlier.Month(), earlier.Day(), 0, 0, 0, 0, time.UTC)
	l := time.Date(later.Year(), later.Month(), later.Day(), 0, 0, 0, 0, time.UTC)
	return int(l.Sub(e).Hours() / 24)
}

// HasBadge reports whether the badge id is already held.
func HasBadge(p models.Progression, badgeID string) bool {
	for _, b := range p.Gamification.Badges {
		if b.ID == badgeID {
			return true
		}
	}
	return false
}

// AwardBadge adds a badge to the snapshot. Awarding an already-held badge is
// a no-op, not an error; the bool reports whether the badge was newly added.
func AwardBadge(p models.Progression, badgeID string, earnedAt time.Time) (models.Progression, bool) {
	if HasBadge(p, badgeID) {
		return p, false
	}

	badges := make([]models.EarnedBadge, len(p.Gamification.Badges), len(p.Gamification.Badges)+1)
	copy(badges, p.Gamification.Badges)
	p.Gamification.Badges = append(badges, models.EarnedBadge{ID: badgeID, EarnedAt: earnedAt})
	return p, true
}

// EvaluateBadges returns the catalog badges whose threshold is met but which
// the user does not yet hold. Badges are monotonic: nothing is ever removed,
// even if a watched stat could somehow decrease.
func EvaluateBadges(p models.Progression, categoryTaskCounts map[string]int) []models.Badge {
	var earned []models.Badge
	for _, th := range thresholds {
		if HasBadge(p, th.badgeID) {
			continue
		}
		if th.current(p, categoryTaskCounts) >= th.required {
			if badge, ok := BadgeByID(th.badgeID); ok {
				earned = append(earned, badge)
			}
		}
	}
	return earned
}

// Progress reports per-badge progress for every threshold badge, for the
// badge-overview endpoint.
func Progress(p models.Progression, categoryTaskCounts map[string]int) map[string]models.BadgeProgress {
	out := make(map[string]models.BadgeProgress, len(thresholds))
	for _, th := range thresholds {
		current := th.current(p, categoryTaskCounts)
		if current > th.required {
			current = th.required
		}
		out[th.badgeID] = models.BadgeProgress{
			Current:    current,
			Required:   th.required,
			Percentage: (current*100 + th.required/2) / th.required,
		}
	}
	return out
}

// EventBadges evaluates the session-triggered badges for a just-completed
// session: early-bird (started before 07:00), night-owl (ended at or after
// 22:00) and distraction-free (completed with zero distractions). Times are
// taken in the session's recorded local wall clock.
func EventBadges(s models.FocusSession) []models.Badge {
	if s.Status != models.SessionCompleted {
		return nil
	}

	var earned []models.Badge
	if s.StartTime != nil && s.StartTime.Hour() < 7 {
		if b, ok := BadgeByID("early-bird"); ok {
			earned = append(earned, b)
		}
	}
	if s.EndTime != nil && s.EndTime.Hour() >= 22 {
		if b, ok := BadgeByID("night-owl"); ok {
			earned = append(earned, b)
		}
	}
	if s.Metrics.DistractionCount == 0 {
		if b, ok := BadgeByID("distraction-free"); ok {
			earned = append(earned, b)
		}
	}
	return earned
}
