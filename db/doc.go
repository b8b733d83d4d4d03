// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connections

Open supports SQLite (modernc.org/sqlite) and PostgreSQL (lib/pq):

	conn, err := db.Open(ctx, db.TypeSQLite, "elect.db")

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voter: voter identities (voter_id unique)
  - party: parties (name unique)
  - election: metadata, dates and status
  - candidate: roster entries per election
  - allowed_voter: eligibility, unique per (voter_id, election_id)
  - vote: accepted votes, unique per (voter_id, election_id)

# Relationships

	election 1──* candidate *──1 party
	election 1──* allowed_voter
	election 1──* vote *──1 candidate (same election)
	voter 1──* vote

Foreign keys do not cascade. Deleting an election is done explicitly by the
catalog, and only while it has no votes.

# Errors

IsUniqueViolation recognizes constraint conflicts from both drivers. The
ledger relies on it to report a second vote as a rejection rather than a
storage failure. IsForeignKeyViolation recognizes a vote whose candidate is
not in the vote's election, or a delete racing a vote.

# Transactions

WithTx runs a function in a transaction, rolling back on error. LockElection
takes the election row lock that votes, closes and deletes all contend on.
*/
package db
