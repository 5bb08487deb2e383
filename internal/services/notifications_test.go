package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestReminderDue(t *testing.T) {
	morning := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if reminderDue(morning, 18) {
		t.Fatalf("expected no reminder before the send hour")
	}

	onTheHour := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	if !reminderDue(onTheHour, 18) {
		t.Fatalf("expected reminder at the send hour")
	}

	late := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
	if !reminderDue(late, 18) {
		t.Fatalf("expected reminder after the send hour")
	}
}

func TestReminderSentKey(t *testing.T) {
	id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	day := time.Date(2026, 3, 2, 19, 15, 0, 0, time.UTC)

	key := reminderSentKey(id, day)
	want := "streak_reminder_sent:7c9e6679-7425-40de-944b-e07fc1f90ae7:2026-03-02"
	if key != want {
		t.Fatalf("expected key %q, got %q", want, key)
	}

	// Same day, different hour, same key. The dedupe marker is per day.
	later := day.Add(3 * time.Hour)
	if reminderSentKey(id, later) != key {
		t.Fatalf("expected the key to be stable within a day")
	}
}
