package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"focusflow-backend/internal/gamification"
	"focusflow-backend/internal/models"
	"focusflow-backend/internal/repository"
)

const notificationQueue = "queue:notifications"

// GamificationService applies the progression engine to completed work and
// fans the results out: persisted state, websocket events, queued emails.
type GamificationService struct {
	userRepo *repository.UserRepo
	taskRepo *repository.TaskRepo
	queue    *redis.Client
	pubsub   *redis.Client
}

func NewGamificationService(userRepo *repository.UserRepo, taskRepo *repository.TaskRepo, queue, pubsub *redis.Client) *GamificationService {
	return &GamificationService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		queue:    queue,
		pubsub:   pubsub,
	}
}

// Rewards summarizes what a completion earned the user.
type Rewards struct {
	XPGained   int            `json:"xp_gained"`
	TotalXP    int            `json:"total_xp"`
	Level      int            `json:"level"`
	LevelUp    bool           `json:"level_up"`
	StreakDays int            `json:"streak_days"`
	NewBadges  []models.Badge `json:"new_badges"`
}

// ApplySessionCompletion folds a completed session into the user's
// progression: stats, XP, streak and every badge the session unlocks.
func (s *GamificationService) ApplySessionCompletion(ctx context.Context, userID uuid.UUID, session *models.FocusSession) (*Rewards, error) {
	snapshot, err := s.userRepo.GetProgression(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progression: %w", err)
	}

	now := time.Now()
	p := *snapshot
	p.Stats.TotalSessions++
	p.Stats.TotalFocusTime += session.ActualDuration
	p.Stats.DistractionsLogged += session.Metrics.DistractionCount

	p, levelResult, err := gamification.AddXP(p, session.XPEarned)
	if err != nil {
		return nil, err
	}
	p = gamification.UpdateStreak(p, now)

	counts, err := s.taskRepo.CountCompletedByCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by category: %w", err)
	}

	candidates := gamification.EvaluateBadges(p, counts)
	candidates = append(candidates, gamification.EventBadges(*session)...)

	var newBadges []models.Badge
	for _, badge := range candidates {
		var added bool
		p, added = gamification.AwardBadge(p, badge.ID, now)
		if added {
			newBadges = append(newBadges, badge)
		}
	}

	if err := s.userRepo.SaveProgression(ctx, userID, &p); err != nil {
		return nil, fmt.Errorf("failed to save progression: %w", err)
	}

	rewards := &Rewards{
		XPGained:   session.XPEarned,
		TotalXP:    p.Gamification.TotalXP,
		Level:      p.Gamification.Level,
		LevelUp:    levelResult.LevelUp,
		StreakDays: p.Gamification.StreakDays,
		NewBadges:  newBadges,
	}
	s.announce(ctx, userID, rewards)
	return rewards, nil
}

// ApplyTaskCompletion folds a completed task into the user's progression.
// The XP amount is already computed and stamped on the task by the caller.
func (s *GamificationService) ApplyTaskCompletion(ctx context.Context, userID uuid.UUID, xpGained int) (*Rewards, error) {
	snapshot, err := s.userRepo.GetProgression(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progression: %w", err)
	}

	now := time.Now()
	p := *snapshot
	p.Stats.CompletedTasks++

	p, levelResult, err := gamification.AddXP(p, xpGained)
	if err != nil {
		return nil, err
	}
	p = gamification.UpdateStreak(p, now)

	counts, err := s.taskRepo.CountCompletedByCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by category: %w", err)
	}

	candidates := gamification.EvaluateBadges(p, counts)
	if perfect, perfectErr := s.isPerfectDay(ctx, userID, now); perfectErr == nil && perfect {
		if badge, ok := gamification.BadgeByID("perfect-day"); ok {
			candidates = append(candidates, badge)
		}
	}

	var newBadges []models.Badge
	for _, badge := range candidates {
		var added bool
		p, added = gamification.AwardBadge(p, badge.ID, now)
		if added {
			newBadges = append(newBadges, badge)
		}
	}

	if err := s.userRepo.SaveProgression(ctx, userID, &p); err != nil {
		return nil, fmt.Errorf("failed to save progression: %w", err)
	}

	rewards := &Rewards{
		XPGained:   xpGained,
		TotalXP:    p.Gamification.TotalXP,
		Level:      p.Gamification.Level,
		LevelUp:    levelResult.LevelUp,
		StreakDays: p.Gamification.StreakDays,
		NewBadges:  newBadges,
	}
	s.announce(ctx, userID, rewards)
	return rewards, nil
}

// RegisterTaskCreated bumps the lifetime task counter.
func (s *GamificationService) RegisterTaskCreated(ctx context.Context, userID uuid.UUID) error {
	snapshot, err := s.userRepo.GetProgression(ctx, userID)
	if err != nil {
		return err
	}
	p := *snapshot
	p.Stats.TotalTasks++
	return s.userRepo.SaveProgression(ctx, userID, &p)
}

// CheckAchievements re-runs the threshold badges against the user's current
// progression and awards anything missing. Event badges are skipped here
// since they depend on a specific session, not on accumulated state.
func (s *GamificationService) CheckAchievements(ctx context.Context, userID uuid.UUID) ([]models.Badge, error) {
	snapshot, err := s.userRepo.GetProgression(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progression: %w", err)
	}

	counts, err := s.taskRepo.CountCompletedByCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by category: %w", err)
	}

	now := time.Now()
	p := *snapshot
	newBadges := []models.Badge{}
	for _, badge := range gamification.EvaluateBadges(p, counts) {
		var added bool
		p, added = gamification.AwardBadge(p, badge.ID, now)
		if added {
			newBadges = append(newBadges, badge)
		}
	}

	if len(newBadges) == 0 {
		return newBadges, nil
	}

	if err := s.userRepo.SaveProgression(ctx, userID, &p); err != nil {
		return nil, fmt.Errorf("failed to save progression: %w", err)
	}
	s.announce(ctx, userID, &Rewards{
		TotalXP:    p.Gamification.TotalXP,
		Level:      p.Gamification.Level,
		StreakDays: p.Gamification.StreakDays,
		NewBadges:  newBadges,
	})
	return newBadges, nil
}

// isPerfectDay holds when the user finished at least one task today and no
// task due today is still open.
func (s *GamificationService) isPerfectDay(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error) {
	completed, err := s.taskRepo.CountCompletedOnDay(ctx, userID, day)
	if err != nil {
		return false, err
	}
	if completed == 0 {
		return false, nil
	}
	open, err := s.taskRepo.CountOpenDueOnDay(ctx, userID, day)
	if err != nil {
		return false, err
	}
	return open == 0, nil
}

// BadgeOverview merges the static catalog with the user's earned set and
// progress toward the threshold badges.
type BadgeOverview struct {
	Badge    models.Badge          `json:"badge"`
	Earned   bool                  `json:"earned"`
	EarnedAt *time.Time            `json:"earned_at,omitempty"`
	Progress *models.BadgeProgress `json:"progress,omitempty"`
}

func (s *GamificationService) BadgeOverviews(ctx context.Context, userID uuid.UUID) ([]BadgeOverview, error) {
	p, err := s.userRepo.GetProgression(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.taskRepo.CountCompletedByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}

	earnedAt := make(map[string]time.Time, len(p.Gamification.Badges))
	for _, b := range p.Gamification.Badges {
		earnedAt[b.ID] = b.EarnedAt
	}
	progress := gamification.Progress(*p, counts)

	overviews := make([]BadgeOverview, 0, len(gamification.Catalog))
	for _, badge := range gamification.Catalog {
		o := BadgeOverview{Badge: badge}
		if at, ok := earnedAt[badge.ID]; ok {
			o.Earned = true
			t := at
			o.EarnedAt = &t
		}
		if pr, ok := progress[badge.ID]; ok {
			prCopy := pr
			o.Progress = &prCopy
		}
		overviews = append(overviews, o)
	}
	return overviews, nil
}

// announce publishes websocket events and queues email notifications for
// whatever the rewards contain. Failures are logged, never surfaced: the
// completion itself already committed.
func (s *GamificationService) announce(ctx context.Context, userID uuid.UUID, rewards *Rewards) {
	if rewards.XPGained > 0 {
		s.PublishUpdate(ctx, userID, models.WSMessage{
			Type: "xp_gained",
			Payload: models.XPGainedEvent{
				XPGained: rewards.XPGained,
				TotalXP:  rewards.TotalXP,
				Level:    rewards.Level,
			},
		})
	}

	if rewards.LevelUp {
		s.PublishUpdate(ctx, userID, models.WSMessage{
			Type:    "level_up",
			Payload: models.LevelUpEvent{NewLevel: rewards.Level},
		})
		s.enqueueNotification(ctx, models.NotificationJob{
			UserID: userID,
			Kind:   "level-up",
			Level:  rewards.Level,
		})
	}

	for _, badge := range rewards.NewBadges {
		s.PublishUpdate(ctx, userID, models.WSMessage{
			Type:    "badge_earned",
			Payload: models.BadgeEarnedEvent{Badge: badge},
		})
		s.enqueueNotification(ctx, models.NotificationJob{
			UserID:  userID,
			Kind:    "badge-earned",
			BadgeID: badge.ID,
		})
	}
}

// PublishUpdate sends a message to the user's websocket channel.
func (s *GamificationService) PublishUpdate(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal WS message: %v", err)
		return
	}

	channel := fmt.Sprintf("user_updates:%s", userID.String())
	if err := s.pubsub.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("Failed to publish WS message: %v", err)
	}
}

func (s *GamificationService) enqueueNotification(ctx context.Context, job models.NotificationJob) {
	data, err := json.Marshal(job)
	if err != nil {
		log.Printf("Failed to marshal notification job: %v", err)
		return
	}
	if err := s.queue.LPush(ctx, notificationQueue, data).Err(); err != nil {
		log.Printf("Failed to enqueue notification job: %v", err)
	}
}
