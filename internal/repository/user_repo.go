package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"focusflow-backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

type LeaderboardEntry struct {
	UserID     uuid.UUID `json:"user_id"`
	FullName   string    `json:"full_name"`
	AvatarURL  *string   `json:"avatar_url"`
	Level      int       `json:"level"`
	TotalXP    int       `json:"total_xp"`
	StreakDays int       `json:"streak_days"`
	Rank       int       `json:"rank"`
}

type StreakReminderRecipient struct {
	ID             uuid.UUID
	Email          string
	FullName       string
	StreakDays     int
	LastActiveDate *time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, full_name, avatar_url, timezone, theme,
	is_verified, is_active, auth_provider, google_id,
	level, total_xp, streak_days, longest_streak, last_active_date,
	total_focus_time, total_sessions, total_tasks, completed_tasks, distractions_logged,
	created_at, last_login_at`

func (r *UserRepo) scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.AvatarURL,
		&user.Timezone, &user.Theme, &user.IsVerified, &user.IsActive,
		&user.AuthProvider, &user.GoogleID,
		&user.Gamification.Level, &user.Gamification.TotalXP, &user.Gamification.StreakDays,
		&user.Gamification.LongestStreak, &user.Gamification.LastActiveDate,
		&user.Stats.TotalFocusTime, &user.Stats.TotalSessions, &user.Stats.TotalTasks,
		&user.Stats.CompletedTasks, &user.Stats.DistractionsLogged,
		&user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, is_verified, auth_provider, google_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	user.ID = uuid.New()
	user.IsActive = true
	if user.AuthProvider == "" {
		user.AuthProvider = "local"
	}
	user.Gamification.Level = 1

	return r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.IsVerified,
		user.AuthProvider, user.GoogleID,
	).Scan(&user.CreatedAt)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepo) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID))
}

func (r *UserRepo) LinkGoogle(ctx context.Context, userID uuid.UUID, googleID string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET google_id = $1, is_verified = TRUE WHERE id = $2", googleID, userID)
	return err
}

func (r *UserRepo) VerifyEmail(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET is_verified = TRUE WHERE id = $1", userID)
	return err
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET last_login_at = $1 WHERE id = $2", time.Now(), userID)
	return err
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET full_name = $1, avatar_url = $2, timezone = $3, theme = $4 WHERE id = $5",
		user.FullName, user.AvatarURL, user.Timezone, user.Theme, user.ID,
	)
	return err
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", passwordHash, userID)
	return err
}

func (r *UserRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", userID)
	return err
}

// GetProgression loads the gamification state and lifetime stats in one
// snapshot, including earned badges. The services mutate the snapshot and
// hand it back to SaveProgression.
func (r *UserRepo) GetProgression(ctx context.Context, userID uuid.UUID) (*models.Progression, error) {
	p := &models.Progression{}
	err := r.pool.QueryRow(ctx, `
		SELECT level, total_xp, streak_days, longest_streak, last_active_date,
			total_focus_time, total_sessions, total_tasks, completed_tasks, distractions_logged
		FROM users WHERE id = $1`, userID,
	).Scan(
		&p.Gamification.Level, &p.Gamification.TotalXP, &p.Gamification.StreakDays,
		&p.Gamification.LongestStreak, &p.Gamification.LastActiveDate,
		&p.Stats.TotalFocusTime, &p.Stats.TotalSessions, &p.Stats.TotalTasks,
		&p.Stats.CompletedTasks, &p.Stats.DistractionsLogged,
	)
	if err != nil {
		return nil, err
	}

	badges, err := r.GetBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Gamification.Badges = badges
	return p, nil
}

func (r *UserRepo) SaveProgression(ctx context.Context, userID uuid.UUID, p *models.Progression) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE users SET
			level = $1, total_xp = $2, streak_days = $3, longest_streak = $4, last_active_date = $5,
			total_focus_time = $6, total_sessions = $7, total_tasks = $8, completed_tasks = $9,
			distractions_logged = $10
		WHERE id = $11`,
		p.Gamification.Level, p.Gamification.TotalXP, p.Gamification.StreakDays,
		p.Gamification.LongestStreak, p.Gamification.LastActiveDate,
		p.Stats.TotalFocusTime, p.Stats.TotalSessions, p.Stats.TotalTasks,
		p.Stats.CompletedTasks, p.Stats.DistractionsLogged, userID,
	)
	if err != nil {
		return err
	}

	for _, b := range p.Gamification.Badges {
		_, err = tx.Exec(ctx, `
			INSERT INTO user_badges (user_id, badge_id, earned_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, badge_id) DO NOTHING`,
			userID, b.ID, b.EarnedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepo) GetBadges(ctx context.Context, userID uuid.UUID) ([]models.EarnedBadge, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT badge_id, earned_at FROM user_badges WHERE user_id = $1 ORDER BY earned_at", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	badges := make([]models.EarnedBadge, 0)
	for rows.Next() {
		var b models.EarnedBadge
		if scanErr := rows.Scan(&b.ID, &b.EarnedAt); scanErr != nil {
			return nil, scanErr
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// leaderboardColumns whitelists the sortable metrics. Anything else falls
// back to total XP.
var leaderboardColumns = map[string]string{
	"xp":         "total_xp",
	"focus-time": "total_focus_time",
	"tasks":      "completed_tasks",
	"streak":     "streak_days",
}

func (r *UserRepo) Leaderboard(ctx context.Context, metric string, limit int) ([]LeaderboardEntry, error) {
	column, ok := leaderboardColumns[metric]
	if !ok {
		column = "total_xp"
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, full_name, avatar_url, level, total_xp, streak_days
		FROM users
		WHERE is_active = TRUE
		ORDER BY %s DESC, created_at ASC
		LIMIT $1`, column), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e LeaderboardEntry
		if scanErr := rows.Scan(&e.UserID, &e.FullName, &e.AvatarURL, &e.Level, &e.TotalXP, &e.StreakDays); scanErr != nil {
			return nil, scanErr
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListStreakReminderCandidates returns verified users whose streak would
// break today: they have an active streak but no activity recorded for the
// current day yet.
func (r *UserRepo) ListStreakReminderCandidates(ctx context.Context, graceDays int) ([]StreakReminderRecipient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, full_name, streak_days, last_active_date
		FROM users
		WHERE is_active = TRUE
		  AND is_verified = TRUE
		  AND streak_days > 0
		  AND last_active_date IS NOT NULL
		  AND last_active_date::date < CURRENT_DATE
		  AND last_active_date::date >= CURRENT_DATE - $1::int`, graceDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := make([]StreakReminderRecipient, 0)
	for rows.Next() {
		var recipient StreakReminderRecipient
		if scanErr := rows.Scan(
			&recipient.ID,
			&recipient.Email,
			&recipient.FullName,
			&recipient.StreakDays,
			&recipient.LastActiveDate,
		); scanErr != nil {
			return nil, scanErr
		}
		recipients = append(recipients, recipient)
	}
	return recipients, rows.Err()
}
