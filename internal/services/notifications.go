package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"focusflow-backend/internal/repository"
)

const (
	reminderPollInterval = 1 * time.Hour
	reminderSentTTL      = 20 * time.Hour
)

// StreakReminderScheduler emails users whose streak is about to break: an
// active streak, but no session or task completed today. A Redis marker per
// user and day keeps the hourly poll from sending duplicates.
type StreakReminderScheduler struct {
	userRepo  *repository.UserRepo
	email     *EmailService
	redis     *redis.Client
	sendHour  int
	graceDays int
	stopChan  chan struct{}
}

func NewStreakReminderScheduler(userRepo *repository.UserRepo, email *EmailService, redisClient *redis.Client, sendHour, graceDays int) *StreakReminderScheduler {
	return &StreakReminderScheduler{
		userRepo:  userRepo,
		email:     email,
		redis:     redisClient,
		sendHour:  sendHour,
		graceDays: graceDays,
		stopChan:  make(chan struct{}),
	}
}

func (s *StreakReminderScheduler) Start() {
	if s.userRepo == nil || s.email == nil {
		return
	}

	go s.loop()

	log.Printf("Streak reminder scheduler started (send hour %02d:00 UTC)", s.sendHour)
}

func (s *StreakReminderScheduler) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *StreakReminderScheduler) loop() {
	// Run on startup as well as by interval.
	s.sendReminders(context.Background(), time.Now().UTC())

	ticker := time.NewTicker(reminderPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sendReminders(context.Background(), time.Now().UTC())
		}
	}
}

// reminderDue reports whether the daily send window has opened. Reminders go
// out in the evening; earlier the user may still show up on their own.
func reminderDue(now time.Time, sendHour int) bool {
	return now.Hour() >= sendHour
}

func reminderSentKey(userID fmt.Stringer, day time.Time) string {
	return fmt.Sprintf("streak_reminder_sent:%s:%s", userID, day.Format("2006-01-02"))
}

func (s *StreakReminderScheduler) sendReminders(ctx context.Context, now time.Time) {
	if !reminderDue(now, s.sendHour) {
		return
	}

	recipients, err := s.userRepo.ListStreakReminderCandidates(ctx, s.graceDays)
	if err != nil {
		log.Printf("streak reminders: failed to list recipients: %v", err)
		return
	}

	for _, recipient := range recipients {
		sentKey := reminderSentKey(recipient.ID, now)
		set, err := s.redis.SetNX(ctx, sentKey, "1", reminderSentTTL).Result()
		if err != nil || !set {
			continue
		}

		if err := s.email.SendStreakReminderEmail(recipient.Email, recipient.FullName, recipient.StreakDays); err != nil {
			log.Printf("streak reminders: failed to send to %s: %v", recipient.Email, err)
			continue
		}
	}
}
