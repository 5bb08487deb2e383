package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"focusflow-backend/internal/models"
)

// ErrActiveSessionExists surfaces the partial unique index on
// focus_sessions(user_id) for rows in active or paused state. A user can
// only run one session at a time.
var ErrActiveSessionExists = errors.New("user already has an active session")

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

const sessionColumns = `id, user_id, title, type, planned_duration, actual_duration, status,
	start_time, end_time, paused_at, resumed_at, tasks, distraction_count, distractions,
	focus_score, notes, xp_earned, created_at`

func scanSession(row interface{ Scan(...any) error }) (*models.FocusSession, error) {
	s := &models.FocusSession{}
	var tasksJSON, distractionsJSON, notesJSON []byte
	err := row.Scan(
		&s.ID, &s.UserID, &s.Title, &s.Type, &s.PlannedDuration, &s.ActualDuration, &s.Status,
		&s.StartTime, &s.EndTime, &s.PausedAt, &s.ResumedAt, &tasksJSON,
		&s.Metrics.DistractionCount, &distractionsJSON, &s.Metrics.FocusScore,
		&notesJSON, &s.XPEarned, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tasksJSON, &s.Tasks); err != nil {
		return nil, fmt.Errorf("failed to decode session tasks: %w", err)
	}
	if err := json.Unmarshal(distractionsJSON, &s.Metrics.Distractions); err != nil {
		return nil, fmt.Errorf("failed to decode session distractions: %w", err)
	}
	if err := json.Unmarshal(notesJSON, &s.Notes); err != nil {
		return nil, fmt.Errorf("failed to decode session notes: %w", err)
	}
	return s, nil
}

func encodeSession(s *models.FocusSession) (tasks, distractions, notes []byte, err error) {
	if s.Tasks == nil {
		s.Tasks = []models.SessionTask{}
	}
	if s.Metrics.Distractions == nil {
		s.Metrics.Distractions = []models.Distraction{}
	}
	tasks, err = json.Marshal(s.Tasks)
	if err != nil {
		return nil, nil, nil, err
	}
	distractions, err = json.Marshal(s.Metrics.Distractions)
	if err != nil {
		return nil, nil, nil, err
	}
	notes, err = json.Marshal(s.Notes)
	if err != nil {
		return nil, nil, nil, err
	}
	return tasks, distractions, notes, nil
}

func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "focus_sessions_one_active_per_user" {
		return ErrActiveSessionExists
	}
	return err
}

func (r *SessionRepo) Create(ctx context.Context, s *models.FocusSession) error {
	tasks, distractions, notes, err := encodeSession(s)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO focus_sessions (id, user_id, title, type, planned_duration, status,
			start_time, tasks, distraction_count, distractions, focus_score, notes, xp_earned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at`

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	err = r.pool.QueryRow(ctx, query,
		s.ID, s.UserID, s.Title, s.Type, s.PlannedDuration, s.Status,
		s.StartTime, tasks, s.Metrics.DistractionCount, distractions,
		s.Metrics.FocusScore, notes, s.XPEarned,
	).Scan(&s.CreatedAt)
	return translateUniqueViolation(err)
}

func (r *SessionRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.FocusSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM focus_sessions WHERE id = $1 AND user_id = $2`, id, userID))
}

// GetActive returns the user's current active or paused session, or
// pgx.ErrNoRows when there is none.
func (r *SessionRepo) GetActive(ctx context.Context, userID uuid.UUID) (*models.FocusSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM focus_sessions
		 WHERE user_id = $1 AND status IN ('active', 'paused')`, userID))
}

func (r *SessionRepo) Update(ctx context.Context, s *models.FocusSession) error {
	tasks, distractions, notes, err := encodeSession(s)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE focus_sessions SET title = $1, status = $2, actual_duration = $3,
			start_time = $4, end_time = $5, paused_at = $6, resumed_at = $7,
			tasks = $8, distraction_count = $9, distractions = $10, focus_score = $11,
			notes = $12, xp_earned = $13
		WHERE id = $14 AND user_id = $15`,
		s.Title, s.Status, s.ActualDuration,
		s.StartTime, s.EndTime, s.PausedAt, s.ResumedAt,
		tasks, s.Metrics.DistractionCount, distractions, s.Metrics.FocusScore,
		notes, s.XPEarned, s.ID, s.UserID,
	)
	return translateUniqueViolation(err)
}

func (r *SessionRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM focus_sessions WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

func (r *SessionRepo) List(ctx context.Context, userID uuid.UUID, status, sessionType string, limit, offset int) ([]*models.FocusSession, int, error) {
	var args []interface{}
	argIdx := 1

	where := fmt.Sprintf("WHERE user_id = $%d", argIdx)
	args = append(args, userID)
	argIdx++

	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}
	if sessionType != "" {
		where += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, sessionType)
		argIdx++
	}

	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM focus_sessions "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+sessionColumns+` FROM focus_sessions %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []*models.FocusSession
	for rows.Next() {
		s, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		sessions = append(sessions, s)
	}

	return sessions, total, rows.Err()
}

// TodayStats aggregates the completed sessions of one calendar day.
type TodayStats struct {
	SessionCount  int `json:"session_count"`
	TotalMinutes  int `json:"total_minutes"`
	TotalXP       int `json:"total_xp"`
	Distractions  int `json:"distractions"`
	AvgFocusScore int `json:"avg_focus_score"`
}

func (r *SessionRepo) TodayStats(ctx context.Context, userID uuid.UUID, day time.Time) (*TodayStats, error) {
	st := &TodayStats{}
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(actual_duration), 0),
			COALESCE(SUM(xp_earned), 0),
			COALESCE(SUM(distraction_count), 0),
			COALESCE(ROUND(AVG(focus_score)), 0)
		FROM focus_sessions
		WHERE user_id = $1 AND status = 'completed' AND end_time::date = $2::date`,
		userID, day,
	).Scan(&st.SessionCount, &st.TotalMinutes, &st.TotalXP, &st.Distractions, &st.AvgFocusScore)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// DailyProductivity is one row of the productivity history.
type DailyProductivity struct {
	Day           time.Time `json:"day"`
	SessionCount  int       `json:"session_count"`
	TotalMinutes  int       `json:"total_minutes"`
	TotalXP       int       `json:"total_xp"`
	AvgFocusScore int       `json:"avg_focus_score"`
}

func (r *SessionRepo) ProductivityHistory(ctx context.Context, userID uuid.UUID, days int) ([]DailyProductivity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT end_time::date AS day,
			COUNT(*),
			COALESCE(SUM(actual_duration), 0),
			COALESCE(SUM(xp_earned), 0),
			COALESCE(ROUND(AVG(focus_score)), 0)
		FROM focus_sessions
		WHERE user_id = $1 AND status = 'completed'
		  AND end_time >= CURRENT_DATE - $2::int
		GROUP BY day
		ORDER BY day`, userID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]DailyProductivity, 0)
	for rows.Next() {
		var d DailyProductivity
		if scanErr := rows.Scan(&d.Day, &d.SessionCount, &d.TotalMinutes, &d.TotalXP, &d.AvgFocusScore); scanErr != nil {
			return nil, scanErr
		}
		history = append(history, d)
	}
	return history, rows.Err()
}

// CountCompletedOnDay counts sessions completed on the given calendar day.
// Used together with TaskRepo.CountCompletedOnDay for the perfect-day badge.
func (r *SessionRepo) CountCompletedOnDay(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM focus_sessions
		WHERE user_id = $1 AND status = 'completed' AND end_time::date = $2::date`,
		userID, day).Scan(&count)
	return count, err
}

// IsNotFound reports whether an error from this package means the row does
// not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
