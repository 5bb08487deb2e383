package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func loadWithRequiredEnv(t *testing.T) *Config {
	t.Helper()

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/focusflow_test")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("JWT_SECRET", "test-secret")

	return Load()
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadWithRequiredEnv(t)

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.ReminderHourUTC != 18 {
		t.Errorf("Expected default reminder hour 18, got %d", cfg.ReminderHourUTC)
	}
	if cfg.ReminderGraceDays != 1 {
		t.Errorf("Expected default grace days 1, got %d", cfg.ReminderGraceDays)
	}
	if cfg.NotificationWorkers != 3 {
		t.Errorf("Expected default worker count 3, got %d", cfg.NotificationWorkers)
	}
	if cfg.SMTPFrom != "noreply@focusflow.app" {
		t.Errorf("Expected default sender, got %q", cfg.SMTPFrom)
	}
	if cfg.FrontendURL != "http://localhost:5173" {
		t.Errorf("Expected default frontend URL, got %q", cfg.FrontendURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REMINDER_HOUR_UTC", "20")
	t.Setenv("REMINDER_GRACE_DAYS", "2")
	t.Setenv("NOTIFICATION_WORKERS", "8")

	cfg := loadWithRequiredEnv(t)

	if cfg.ReminderHourUTC != 20 {
		t.Errorf("Expected reminder hour 20, got %d", cfg.ReminderHourUTC)
	}
	if cfg.ReminderGraceDays != 2 {
		t.Errorf("Expected grace days 2, got %d", cfg.ReminderGraceDays)
	}
	if cfg.NotificationWorkers != 8 {
		t.Errorf("Expected 8 workers, got %d", cfg.NotificationWorkers)
	}
}
