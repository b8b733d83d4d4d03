// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cliparse.LoadDotEnv()
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p                   Server port (default 3318)
	-d                   Database URL (required)
	-t                   Database type: sqlite (default) or postgres
	-admin-salt          Admin key salt (required)
	-seed                YAML fixture applied at startup
	-schedule-interval   Election scheduler interval, e.g. 30s (0 disables)
	-vote-rate           Vote submissions per second per voter (0 disables)
	-vote-burst          Vote submission burst per voter
	-log-level           debug, info, warn or error
	-print-authority-key Print the authority admin key and exit

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	ADMIN_KEY_SALT    → -admin-salt
	SEED_FILE         → -seed
	SCHEDULE_INTERVAL → -schedule-interval
	VOTE_RATE         → -vote-rate
	VOTE_BURST        → -vote-burst
	LOG_LEVEL         → -log-level

CLI flags take precedence over environment variables, and environment
variables take precedence over a .env file loaded by LoadDotEnv.
*/
package cliparse
