package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"focusflow-backend/internal/models"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

const taskColumns = `id, user_id, title, description, category, priority, difficulty, status,
	estimated_duration, due_date, tags, xp_value, completed_at, completion_notes,
	created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Category, &t.Priority, &t.Difficulty,
		&t.Status, &t.EstimatedDuration, &t.DueDate, &t.Tags, &t.XPValue,
		&t.CompletedAt, &t.CompletionNotes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TaskRepo) Create(ctx context.Context, t *models.Task) error {
	t.ID = uuid.New()
	if t.Tags == nil {
		t.Tags = []string{}
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, category, priority, difficulty, status,
			estimated_duration, due_date, tags, xp_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		t.ID, t.UserID, t.Title, t.Description, t.Category, t.Priority, t.Difficulty, t.Status,
		t.EstimatedDuration, t.DueDate, t.Tags, t.XPValue,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *TaskRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Task, error) {
	return scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *TaskRepo) List(ctx context.Context, userID uuid.UUID, status, category, priority string, limit, offset int) ([]*models.Task, int, error) {
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
	if category != "" {
		where += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, category)
		argIdx++
	}
	if priority != "" {
		where += fmt.Sprintf(" AND priority = $%d", argIdx)
		args = append(args, priority)
		argIdx++
	}

	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+taskColumns+` FROM tasks %s
		ORDER BY due_date ASC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		tasks = append(tasks, t)
	}

	return tasks, total, rows.Err()
}

func (r *TaskRepo) Update(ctx context.Context, t *models.Task) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tasks SET title = $1, description = $2, category = $3, priority = $4,
			difficulty = $5, status = $6, estimated_duration = $7, due_date = $8,
			tags = $9, xp_value = $10, completed_at = $11, completion_notes = $12,
			updated_at = NOW()
		WHERE id = $13 AND user_id = $14`,
		t.Title, t.Description, t.Category, t.Priority, t.Difficulty, t.Status,
		t.EstimatedDuration, t.DueDate, t.Tags, t.XPValue, t.CompletedAt, t.CompletionNotes,
		t.ID, t.UserID,
	)
	return err
}

func (r *TaskRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

// CountCompletedByCategory feeds the category-based badge checks.
func (r *TaskRepo) CountCompletedByCategory(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, COUNT(*) FROM tasks
		WHERE user_id = $1 AND status = 'completed'
		GROUP BY category`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if scanErr := rows.Scan(&category, &count); scanErr != nil {
			return nil, scanErr
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// CountCompletedOnDay counts tasks the user completed on the calendar day
// containing the given timestamp. Used by the perfect-day badge check.
func (r *TaskRepo) CountCompletedOnDay(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE user_id = $1 AND status = 'completed' AND completed_at::date = $2::date`,
		userID, day).Scan(&count)
	return count, err
}

// CountOpenDueOnDay counts tasks due on the given day that are still pending
// or in progress. Zero open plus at least one completed makes a perfect day.
func (r *TaskRepo) CountOpenDueOnDay(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE user_id = $1 AND status IN ('pending', 'in-progress') AND due_date::date = $2::date`,
		userID, day).Scan(&count)
	return count, err
}
