package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"focusflow-backend/internal/gamification"
	"focusflow-backend/internal/models"
	"focusflow-backend/internal/repository"
	"focusflow-backend/internal/services"
)

// Pool drains the notification queue and sends the matching emails. Jobs
// are enqueued by the gamification service when a badge or level-up lands;
// email delivery stays off the request path.
type Pool struct {
	redis       *redis.Client
	email       *services.EmailService
	userRepo    *repository.UserRepo
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, email *services.EmailService, userRepo *repository.UserRepo, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		email:       email,
		userRepo:    userRepo,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d notification worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, "queue:notifications").Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.NotificationJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse notification job: %v", id, err)
			continue
		}

		if err := p.process(ctx, &job); err != nil {
			log.Printf("Worker %d: notification job for user %s failed: %v", id, job.UserID, err)
		}
	}
}

func (p *Pool) process(ctx context.Context, job *models.NotificationJob) error {
	user, err := p.userRepo.GetByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsVerified || !user.IsActive {
		return nil
	}

	switch job.Kind {
	case "badge-earned":
		badge, ok := gamification.BadgeByID(job.BadgeID)
		if !ok {
			return fmt.Errorf("unknown badge id %q", job.BadgeID)
		}
		return p.email.SendBadgeEmail(user.Email, user.FullName, badge.Name, badge.Icon)
	case "level-up":
		// Level-ups are frequent early on; only celebrate the milestone
		// levels by mail. The websocket event already covered the rest.
		if job.Level != 5 && job.Level != 10 && job.Level != 25 && job.Level%50 != 0 {
			return nil
		}
		return p.email.SendBadgeEmail(user.Email, user.FullName, fmt.Sprintf("Level %d", job.Level), "🏅")
	default:
		return fmt.Errorf("unknown notification kind: %s", job.Kind)
	}
}
