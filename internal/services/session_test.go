package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"focusflow-backend/internal/models"
)

type stubSessionStore struct {
	active  *models.FocusSession
	created *models.FocusSession
}

func (s *stubSessionStore) Create(ctx context.Context, session *models.FocusSession) error {
	s.created = session
	return nil
}

func (s *stubSessionStore) GetByID(ctx context.Context, sessionID, userID uuid.UUID) (*models.FocusSession, error) {
	return nil, pgx.ErrNoRows
}

func (s *stubSessionStore) GetActive(ctx context.Context, userID uuid.UUID) (*models.FocusSession, error) {
	if s.active == nil {
		return nil, pgx.ErrNoRows
	}
	return s.active, nil
}

func (s *stubSessionStore) Update(ctx context.Context, session *models.FocusSession) error {
	return nil
}

func (s *stubSessionStore) Delete(ctx context.Context, sessionID, userID uuid.UUID) error {
	return nil
}

func (s *stubSessionStore) List(ctx context.Context, userID uuid.UUID, status, sessionType string, limit, offset int) ([]*models.FocusSession, int, error) {
	return nil, 0, nil
}

func TestSessionService_Create_RejectsWhenSessionInFlight(t *testing.T) {
	userID := uuid.New()
	repo := &stubSessionStore{active: &models.FocusSession{
		ID:     uuid.New(),
		UserID: userID,
		Status: models.SessionActive,
	}}
	svc := NewSessionService(repo, nil)

	_, err := svc.Create(context.Background(), userID, CreateSessionRequest{
		Title:           "Second session",
		Type:            models.TypePomodoro,
		PlannedDuration: 25,
	})

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if repo.created != nil {
		t.Fatalf("no session should be created while one is in flight")
	}
}

func TestSessionService_Create_PausedSessionStillBlocks(t *testing.T) {
	userID := uuid.New()
	repo := &stubSessionStore{active: &models.FocusSession{
		ID:     uuid.New(),
		UserID: userID,
		Status: models.SessionPaused,
	}}
	svc := NewSessionService(repo, nil)

	_, err := svc.Create(context.Background(), userID, CreateSessionRequest{
		Title:           "Another one",
		Type:            models.TypeStudy,
		PlannedDuration: 50,
	})

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestSessionService_Create_AllowsWhenIdle(t *testing.T) {
	userID := uuid.New()
	repo := &stubSessionStore{}
	svc := NewSessionService(repo, nil)

	session, err := svc.Create(context.Background(), userID, CreateSessionRequest{
		Title:           "Morning focus",
		Type:            models.TypeDeepWork,
		PlannedDuration: 90,
	})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if repo.created == nil {
		t.Fatalf("expected the session to be persisted")
	}
	if session.Status != models.SessionScheduled {
		t.Fatalf("expected a scheduled session, got %s", session.Status)
	}
}

func TestSessionService_GetActive_NilWhenIdle(t *testing.T) {
	repo := &stubSessionStore{}
	svc := NewSessionService(repo, nil)

	session, err := svc.GetActive(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("idle should not be an error, got %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil session when nothing is in flight")
	}
}
