package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string

	SeedFile         string
	ScheduleInterval time.Duration

	// Per-voter limit on vote submissions; VoteRate <= 0 disables it.
	VoteRate  float64
	VoteBurst int

	LogLevel          string
	PrintAuthorityKey bool
}

// LoadDotEnv loads variables from a .env file in the working directory, if
// one exists. Variables already set in the environment win.
func LoadDotEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-elect", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	fs.StringVar(&cfg.SeedFile, "seed", "", "YAML fixture to load at startup")
	fs.DurationVar(&cfg.ScheduleInterval, "schedule-interval", -1, "Election scheduler interval (0 disables)")
	fs.Float64Var(&cfg.VoteRate, "vote-rate", -1, "Vote submissions per second per voter (0 disables)")
	fs.IntVar(&cfg.VoteBurst, "vote-burst", 0, "Vote submission burst per voter")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.PrintAuthorityKey, "print-authority-key", false, "Print the authority admin key and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}

	// Printing the key needs nothing but the salt.
	if cfg.PrintAuthorityKey {
		return cfg, nil
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.SeedFile == "" {
		cfg.SeedFile = os.Getenv("SEED_FILE")
	}

	if cfg.ScheduleInterval < 0 {
		cfg.ScheduleInterval = 0
		if s := os.Getenv("SCHEDULE_INTERVAL"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil || d < 0 {
				return Config{}, errors.New("invalid SCHEDULE_INTERVAL env variable")
			}
			cfg.ScheduleInterval = d
		}
	}

	if cfg.VoteRate < 0 {
		cfg.VoteRate = 0
		if s := os.Getenv("VOTE_RATE"); s != "" {
			r, err := strconv.ParseFloat(s, 64)
			if err != nil || r < 0 {
				return Config{}, errors.New("invalid VOTE_RATE env variable")
			}
			cfg.VoteRate = r
		}
	}
	if cfg.VoteBurst == 0 {
		if s := os.Getenv("VOTE_BURST"); s != "" {
			b, err := strconv.Atoi(s)
			if err != nil || b < 0 {
				return Config{}, errors.New("invalid VOTE_BURST env variable")
			}
			cfg.VoteBurst = b
		}
	}
	if cfg.VoteRate > 0 && cfg.VoteBurst <= 0 {
		cfg.VoteBurst = 1
	}

	return cfg, nil
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
