package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"focusflow-backend/internal/gamification"
	"focusflow-backend/internal/models"
	"focusflow-backend/internal/repository"
)

type TaskService struct {
	taskRepo     *repository.TaskRepo
	gamification *GamificationService
}

func NewTaskService(taskRepo *repository.TaskRepo, gamification *GamificationService) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		gamification: gamification,
	}
}

type CreateTaskRequest struct {
	Title             string                `json:"title"`
	Description       *string               `json:"description"`
	Category          string                `json:"category"`
	Priority          models.TaskPriority   `json:"priority"`
	Difficulty        models.TaskDifficulty `json:"difficulty"`
	EstimatedDuration *int                  `json:"estimated_duration"`
	DueDate           *time.Time            `json:"due_date"`
	Tags              []string              `json:"tags"`
}

type UpdateTaskRequest struct {
	Title             *string                `json:"title"`
	Description       *string                `json:"description"`
	Category          *string                `json:"category"`
	Priority          *models.TaskPriority   `json:"priority"`
	Difficulty        *models.TaskDifficulty `json:"difficulty"`
	Status            *models.TaskStatus     `json:"status"`
	EstimatedDuration *int                   `json:"estimated_duration"`
	DueDate           *time.Time             `json:"due_date"`
	Tags              []string               `json:"tags"`
}

// TaskResult pairs an updated task with any rewards a completion earned.
type TaskResult struct {
	Task    *models.Task `json:"task"`
	Rewards *Rewards     `json:"rewards,omitempty"`
}

func validateTaskFields(title, category string, priority models.TaskPriority, difficulty models.TaskDifficulty) map[string]string {
	fieldErrors := make(map[string]string)
	if title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if !models.ValidTaskCategory(category) {
		fieldErrors["category"] = "Unknown category"
	}
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent:
	default:
		fieldErrors["priority"] = "Unknown priority"
	}
	switch difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		fieldErrors["difficulty"] = "Unknown difficulty"
	}
	return fieldErrors
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, req CreateTaskRequest) (*models.Task, error) {
	if req.Category == "" {
		req.Category = "other"
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}

	if fieldErrors := validateTaskFields(req.Title, req.Category, req.Priority, req.Difficulty); len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	task := &models.Task{
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Priority:          req.Priority,
		Difficulty:        req.Difficulty,
		Status:            models.TaskPending,
		EstimatedDuration: req.EstimatedDuration,
		DueDate:           req.DueDate,
		Tags:              req.Tags,
		XPValue:           models.BaseXPForPriority(req.Priority),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.gamification.RegisterTaskCreated(ctx, userID); err != nil {
		// Counter drift is tolerable; the task itself is saved.
		return task, nil
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Task not found"}
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, userID uuid.UUID, status, category, priority string, limit, offset int) ([]*models.Task, int, error) {
	return s.taskRepo.List(ctx, userID, status, category, priority, limit, offset)
}

func (s *TaskService) Update(ctx context.Context, userID, taskID uuid.UUID, req UpdateTaskRequest) (*models.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskCompleted {
		return nil, &ConflictError{Message: "Completed tasks cannot be edited"}
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
		task.XPValue = models.BaseXPForPriority(task.Priority)
	}
	if req.Difficulty != nil {
		task.Difficulty = *req.Difficulty
	}
	if req.Status != nil {
		if *req.Status == models.TaskCompleted {
			return nil, &ValidationError{Fields: map[string]string{"status": "Use the complete endpoint to finish a task"}}
		}
		task.Status = *req.Status
	}
	if req.EstimatedDuration != nil {
		task.EstimatedDuration = req.EstimatedDuration
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Tags != nil {
		task.Tags = req.Tags
	}

	if fieldErrors := validateTaskFields(task.Title, task.Category, task.Priority, task.Difficulty); len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Complete marks a task done, computes its XP and applies the rewards.
// Completing an already-completed task is rejected so XP is never granted
// twice.
func (s *TaskService) Complete(ctx context.Context, userID, taskID uuid.UUID, notes *string) (*TaskResult, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status == models.TaskCompleted {
		return nil, &ConflictError{Message: "Task is already completed"}
	}
	if task.Status == models.TaskCancelled {
		return nil, &ConflictError{Message: "Cancelled tasks cannot be completed"}
	}

	now := time.Now()
	task.Status = models.TaskCompleted
	task.CompletedAt = &now
	task.CompletionNotes = notes

	xpGained := gamification.TaskCompletionXP(*task, now)

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rewards, err := s.gamification.ApplyTaskCompletion(ctx, userID, xpGained)
	if err != nil {
		return nil, err
	}

	return &TaskResult{Task: task, Rewards: rewards}, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, taskID); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID, userID)
}
