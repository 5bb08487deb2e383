package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"focusflow-backend/internal/middleware"
	"focusflow-backend/internal/models"
	"focusflow-backend/internal/services"
)

// ─── Error Envelope Tests ───

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"title": "Title is required"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", &services.ConflictError{Message: "You already have an active session"}, http.StatusConflict, "CONFLICT"},
		{"not found", &services.NotFoundError{Message: "Session not found"}, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", &services.UnauthorizedError{Message: "Invalid credentials"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", &services.ForbiddenError{Message: "Not yours"}, http.StatusForbidden, "FORBIDDEN"},
		{"rate limited", &services.RateLimitError{Message: "Slow down"}, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
			req.Header.Set("X-Request-ID", "req-123")
			rr := httptest.NewRecorder()

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode error envelope: %v", err)
			}
			if resp.Error.Code != tc.code {
				t.Errorf("expected code %q, got %q", tc.code, resp.Error.Code)
			}
			if resp.Error.RequestID != "req-123" {
				t.Errorf("expected request_id to be echoed, got %q", resp.Error.RequestID)
			}
		})
	}
}

func TestHandleServiceError_ValidationFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks", nil)
	rr := httptest.NewRecorder()

	handleServiceError(rr, req, &services.ValidationError{Fields: map[string]string{
		"priority": "Priority must be one of: low, medium, high, urgent",
	}})

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if resp.Error.Fields["priority"] == "" {
		t.Errorf("expected the priority field error to survive the round trip")
	}
}

// ─── URL Param Tests ───

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSessionHandler_RejectsMalformedID(t *testing.T) {
	h := NewSessionHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/not-a-uuid/start", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, uuid.New()))
	req = withURLParam(req, "id", "not-a-uuid")

	rr := httptest.NewRecorder()
	h.Start(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("expected code VALIDATION_ERROR, got %q", resp.Error.Code)
	}
}

func TestTaskHandler_RejectsMalformedID(t *testing.T) {
	h := NewTaskHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/42", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, uuid.New()))
	req = withURLParam(req, "id", "42")

	rr := httptest.NewRecorder()
	h.Get(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

// ─── Query Param Tests ───

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		defaultVal int
		want       int
	}{
		{"missing", "", 20, 20},
		{"valid", "limit=50", 20, 50},
		{"zero", "limit=0", 20, 0},
		{"negative", "limit=-5", 20, 20},
		{"garbage", "limit=abc", 20, 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions?"+tc.query, nil)
			if got := parseIntParam(req, "limit", tc.defaultVal); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

// ─── Request Parsing Tests ───

func TestCreateSessionRequest_Parsing(t *testing.T) {
	body := map[string]interface{}{
		"title":            "Morning deep work",
		"type":             "deep-work",
		"planned_duration": 90,
		"notes_before":     "Ship the release notes",
	}
	jsonBody, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	var parsed services.CreateSessionRequest
	if err := json.NewDecoder(req.Body).Decode(&parsed); err != nil {
		t.Fatalf("failed to parse request body: %v", err)
	}

	if parsed.Title != "Morning deep work" {
		t.Errorf("expected title 'Morning deep work', got %q", parsed.Title)
	}
	if parsed.Type != "deep-work" {
		t.Errorf("expected type 'deep-work', got %q", parsed.Type)
	}
	if parsed.PlannedDuration != 90 {
		t.Errorf("expected planned_duration 90, got %d", parsed.PlannedDuration)
	}
}

func TestJSONResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]interface{}{"message": "Created"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got %q", rr.Header().Get("Content-Type"))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["message"] != "Created" {
		t.Errorf("expected message 'Created', got %v", result["message"])
	}
}
