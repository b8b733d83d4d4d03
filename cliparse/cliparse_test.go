// cliparse/cliparse_test.go
package cliparse

import (
	"log/slog"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")
	t.Setenv("SCHEDULE_INTERVAL", "30s")
	t.Setenv("VOTE_RATE", "0.5")
	t.Setenv("VOTE_BURST", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEED_FILE", "seed.yaml")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.ScheduleInterval != 30*time.Second {
		t.Errorf("expected 30s schedule interval, got %v", cfg.ScheduleInterval)
	}
	if cfg.VoteRate != 0.5 || cfg.VoteBurst != 3 {
		t.Errorf("expected rate 0.5 burst 3, got %v %d", cfg.VoteRate, cfg.VoteBurst)
	}
	if cfg.LogLevel != "debug" || cfg.SeedFile != "seed.yaml" {
		t.Errorf("unexpected log level %q or seed file %q", cfg.LogLevel, cfg.SeedFile)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SCHEDULE_INTERVAL", "30s")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-schedule-interval", "0"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.ScheduleInterval != 0 {
		t.Errorf("CLI should disable the scheduler, got %v", cfg.ScheduleInterval)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("SCHEDULE_INTERVAL", "")
	t.Setenv("VOTE_RATE", "")
	t.Setenv("VOTE_BURST", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := ParseFlags([]string{"-d", ":memory:", "-admin-salt", "s1", "-vote-rate", "2"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.ScheduleInterval != 0 {
		t.Errorf("scheduler should be off by default, got %v", cfg.ScheduleInterval)
	}
	if cfg.VoteBurst != 1 {
		t.Errorf("expected burst to default to 1 when a rate is set, got %d", cfg.VoteBurst)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected info log level, got %q", cfg.LogLevel)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_KEY_SALT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SCHEDULE_INTERVAL", "")

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"missing salt", []string{"-d", "x"}, nil},
		{"missing database", []string{"-admin-salt", "s"}, nil},
		{"bad database type", []string{"-d", "x", "-admin-salt", "s", "-t", "mysql"}, nil},
		{"bad log level", []string{"-d", "x", "-admin-salt", "s", "-log-level", "loud"}, nil},
		{"bad port env", []string{"-d", "x", "-admin-salt", "s"}, map[string]string{"PORT": "http"}},
		{"bad interval env", []string{"-d", "x", "-admin-salt", "s"}, map[string]string{"SCHEDULE_INTERVAL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseFlags_PrintAuthorityKeyNeedsOnlySalt(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := ParseFlags([]string{"-admin-salt", "s1", "-print-authority-key"})
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.PrintAuthorityKey {
		t.Error("expected PrintAuthorityKey to be set")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}
