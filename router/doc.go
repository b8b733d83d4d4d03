// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Elect API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Registry (authority key):

	POST /voters  - Register voter identity
	POST /parties - Create party
	GET  /parties - List parties

Elections (authority key to create, election key or authority key after):

	POST   /elections                 - Create election
	GET    /elections                 - List, optionally ?status=
	GET    /elections/{id}            - Election with roster
	PUT    /elections/{id}/status     - Change status
	DELETE /elections/{id}            - Delete (refused once votes exist)
	POST   /elections/{id}/candidates - Add candidate

Eligibility (election key):

	POST   /elections/{id}/allowed-voters           - Register voter
	GET    /elections/{id}/allowed-voters           - List
	DELETE /elections/{id}/allowed-voters/{voterId} - Revoke

Voting (X-Voter-ID):

	POST /elections/{id}/votes        - Cast vote
	GET  /voters/{voterId}/elections  - Elections the voter took part in

Results (public):

	GET /elections/{id}/results - Tally one election
	GET /results                - Tally every election

When Config.VoteRate is positive, vote submissions pass through a per-voter
rate limiter before reaching the handler.
*/
package router
