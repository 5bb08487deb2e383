package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"focusflow-backend/internal/focus"
	"focusflow-backend/internal/models"
	"focusflow-backend/internal/repository"
)

// SessionStore is the slice of the session repository the service needs.
type SessionStore interface {
	Create(ctx context.Context, session *models.FocusSession) error
	GetByID(ctx context.Context, sessionID, userID uuid.UUID) (*models.FocusSession, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*models.FocusSession, error)
	Update(ctx context.Context, session *models.FocusSession) error
	Delete(ctx context.Context, sessionID, userID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, status, sessionType string, limit, offset int) ([]*models.FocusSession, int, error)
}

// SessionService drives the focus-session lifecycle: every transition goes
// through the pure functions in internal/focus, and the resulting snapshot
// is persisted atomically.
type SessionService struct {
	sessionRepo  SessionStore
	gamification *GamificationService
}

func NewSessionService(sessionRepo SessionStore, gamification *GamificationService) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		gamification: gamification,
	}
}

type CreateSessionRequest struct {
	Title           string               `json:"title"`
	Type            models.SessionType   `json:"type"`
	PlannedDuration int                  `json:"planned_duration"`
	Tasks           []models.SessionTask `json:"tasks"`
	NotesBefore     string               `json:"notes_before"`
}

// SessionResult pairs the updated session with any rewards the operation
// produced. Rewards is nil for everything except a completion.
type SessionResult struct {
	Session *models.FocusSession `json:"session"`
	Rewards *Rewards             `json:"rewards,omitempty"`
	Rating  string               `json:"rating,omitempty"`
}

func (s *SessionService) Create(ctx context.Context, userID uuid.UUID, req CreateSessionRequest) (*models.FocusSession, error) {
	// One session in flight per user. The new row is inserted as scheduled,
	// which the storage-level unique index does not cover, so the check has
	// to happen here.
	if _, err := s.sessionRepo.GetActive(ctx, userID); err == nil {
		return nil, &ConflictError{Message: "You already have an active session"}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateRepoError(err)
	}

	session, err := focus.New(userID, req.Title, req.Type, req.PlannedDuration, req.Tasks, time.Now())
	if err != nil {
		return nil, translateFocusError(err)
	}
	session.Notes.Before = req.NotesBefore

	if err := s.sessionRepo.Create(ctx, &session); err != nil {
		return nil, translateRepoError(err)
	}
	return &session, nil
}

func (s *SessionService) Get(ctx context.Context, userID, sessionID uuid.UUID) (*models.FocusSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return session, nil
}

// GetActive returns the session currently in flight, or nil when the user
// has none. Idle is a normal state, not an error.
func (s *SessionService) GetActive(ctx context.Context, userID uuid.UUID) (*models.FocusSession, error) {
	session, err := s.sessionRepo.GetActive(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translateRepoError(err)
	}
	return session, nil
}

func (s *SessionService) List(ctx context.Context, userID uuid.UUID, status, sessionType string, limit, offset int) ([]*models.FocusSession, int, error) {
	return s.sessionRepo.List(ctx, userID, status, sessionType, limit, offset)
}

func (s *SessionService) Start(ctx context.Context, userID, sessionID uuid.UUID) (*models.FocusSession, error) {
	return s.transition(ctx, userID, sessionID, focus.Start)
}

func (s *SessionService) Pause(ctx context.Context, userID, sessionID uuid.UUID) (*models.FocusSession, error) {
	return s.transition(ctx, userID, sessionID, focus.Pause)
}

func (s *SessionService) Resume(ctx context.Context, userID, sessionID uuid.UUID) (*models.FocusSession, error) {
	return s.transition(ctx, userID, sessionID, focus.Resume)
}

func (s *SessionService) Cancel(ctx context.Context, userID, sessionID uuid.UUID) (*models.FocusSession, error) {
	return s.transition(ctx, userID, sessionID, focus.Cancel)
}

func (s *SessionService) transition(ctx context.Context, userID, sessionID uuid.UUID, op func(models.FocusSession, time.Time) (models.FocusSession, error)) (*models.FocusSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	next, err := op(*session, time.Now())
	if err != nil {
		return nil, translateFocusError(err)
	}

	if err := s.sessionRepo.Update(ctx, &next); err != nil {
		return nil, translateRepoError(err)
	}
	return &next, nil
}

// Complete finishes a session and applies its rewards.
func (s *SessionService) Complete(ctx context.Context, userID, sessionID uuid.UUID, notesAfter string, tasks []models.SessionTask) (*SessionResult, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	next, err := focus.Complete(*session, time.Now())
	if err != nil {
		return nil, translateFocusError(err)
	}
	if notesAfter != "" {
		next.Notes.After = notesAfter
	}
	if tasks != nil {
		next.Tasks = tasks
	}

	if err := s.sessionRepo.Update(ctx, &next); err != nil {
		return nil, translateRepoError(err)
	}

	rewards, err := s.gamification.ApplySessionCompletion(ctx, userID, &next)
	if err != nil {
		return nil, err
	}

	return &SessionResult{
		Session: &next,
		Rewards: rewards,
		Rating:  focus.Rating(next),
	}, nil
}

func (s *SessionService) LogDistraction(ctx context.Context, userID, sessionID uuid.UUID, category models.DistractionCategory, description string, durationSeconds int) (*models.FocusSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	next, err := focus.LogDistraction(*session, time.Now(), category, description, durationSeconds)
	if err != nil {
		return nil, translateFocusError(err)
	}

	if err := s.sessionRepo.Update(ctx, &next); err != nil {
		return nil, translateRepoError(err)
	}
	return &next, nil
}

// Delete removes a session record. Terminal sessions only; an in-flight
// session must be cancelled first.
func (s *SessionService) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, userID)
	if err != nil {
		return translateRepoError(err)
	}
	if !session.Status.Terminal() {
		return &ConflictError{Message: "Cancel the session before deleting it"}
	}
	return s.sessionRepo.Delete(ctx, sessionID, userID)
}

func translateFocusError(err error) error {
	var trErr *focus.InvalidTransitionError
	if errors.As(err, &trErr) {
		return &ConflictError{Message: trErr.Error()}
	}
	var argErr *focus.InvalidArgumentError
	if errors.As(err, &argErr) {
		return &ValidationError{Fields: map[string]string{argErr.Field: argErr.Reason}}
	}
	return err
}

func translateRepoError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Message: "Session not found"}
	}
	if errors.Is(err, repository.ErrActiveSessionExists) {
		return &ConflictError{Message: "You already have an active session"}
	}
	return fmt.Errorf("session storage error: %w", err)
}
