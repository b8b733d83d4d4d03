// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers for the Quickly Elect API.

# Handler Types

Each handler is a struct built from a *sql.DB and the server Config:

  - ElectionHandler: election lifecycle and candidates
  - RegistryHandler: voter identities, parties and allowed voters
  - VotingHandler: vote admission and a voter's participation history
  - ResultsHandler: per-election and bulk tallies

	electionHandler := handlers.NewElectionHandler(db, cfg)

# Authorization

Administrative routes require the X-Admin-Key header. Creating elections,
voters and parties needs the authority key; election-scoped routes also
accept the key returned when the election was created:

	POST /elections → CreateElection (returns admin_key)
	PUT /elections/{id}/status → SetStatus

Voter routes read the voter identifier from X-Voter-ID, which is set by the
identity layer in front of the service:

	POST /elections/{id}/votes → CastVote (returns a receipt)

# Errors

Rejections from the engine are written with middleware.WriteError, which maps
each rejection kind to a status code and reports the kind in the "code"
field. A voter's second vote is 409 ALREADY_VOTED; an ineligible voter gets
403 NOT_ELIGIBLE.
*/
package handlers
