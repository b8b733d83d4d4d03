// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are portable between PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	return CreateSchemaContext(context.Background(), db)
}

func CreateSchemaContext(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Tables are listed parents first. Foreign keys carry no ON DELETE CASCADE:
// removing an election is an explicit operation in the catalog.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'VOTER' CHECK (role IN ('VOTER', 'ADMIN')),
    created_at TIMESTAMP NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS party (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT ''
)`,

	`CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    status TEXT NOT NULL DEFAULT 'NOT_STARTED'
        CHECK (status IN ('NOT_STARTED', 'ONGOING', 'COMPLETED', 'CANCELLED')),
    max_voters INTEGER,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_election_status ON election(status)`,

	`CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id),
    party_id TEXT NOT NULL REFERENCES party(id),
    name TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    UNIQUE (id, election_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_candidate_election_id ON candidate(election_id)`,

	`CREATE TABLE IF NOT EXISTS allowed_voter (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL,
    election_id TEXT NOT NULL REFERENCES election(id),
    created_at TIMESTAMP NOT NULL,
    UNIQUE (voter_id, election_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_allowed_voter_election_id ON allowed_voter(election_id)`,

	// One vote per voter per election. This constraint is the only thing
	// standing between concurrent submissions and a double vote. The composite
	// key keeps a vote's candidate inside the vote's election.
	`CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES voter(voter_id),
    candidate_id TEXT NOT NULL REFERENCES candidate(id),
    election_id TEXT NOT NULL REFERENCES election(id),
    cast_at TIMESTAMP NOT NULL,
    UNIQUE (voter_id, election_id),
    FOREIGN KEY (candidate_id, election_id) REFERENCES candidate(id, election_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_election_id ON vote(election_id)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id)`,
}

// DropSchema removes every table, children first. Used by tests that run
// against a shared PostgreSQL database.
func DropSchema(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"vote", "allowed_voter", "candidate", "election", "party", "voter"} {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}
