// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Elect API server.

Quickly Elect admits votes for elections and tallies them. A vote is
accepted only when the voter is registered for the election, the election is
open, and the voter has not voted in it before. The last rule is enforced by
a UNIQUE constraint in the database, so it holds across concurrent requests
and server processes.

# Starting the Server

The server reads an optional .env file, then environment variables or CLI
flags:

	DATABASE_URL=elect.db ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - SEED_FILE (-seed): YAML fixture loaded at startup
  - SCHEDULE_INTERVAL (-schedule-interval): opens and closes elections by date
  - VOTE_RATE, VOTE_BURST (-vote-rate, -vote-burst): per-voter submission limit
  - LOG_LEVEL (-log-level): debug, info, warn or error

Run with -print-authority-key to print the authority admin key for the
configured salt and exit.

# Architecture

  - admission: the vote admission pipeline
  - eligibility, window, ledger: the checks and the vote record
  - tally: snapshot-consistent election results
  - catalog: voters, parties, elections and candidates
  - scheduler, fixtures: date-driven status changes and seed data
  - handlers, router, middleware: the HTTP surface
  - db, cliparse, auth, models, voteerr: shared infrastructure

See package documentation for each component.
*/
package main
