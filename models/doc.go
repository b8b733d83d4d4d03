// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateVoterRequest: voter_id, username, role
  - CreatePartyRequest: name, description
  - CreateElectionRequest: title, description, start_date, end_date, max_voters
  - SetStatusRequest: status
  - AddCandidateRequest: name, bio, party_id
  - RegisterAllowedVoterRequest: voter_id
  - CastVoteRequest: candidate_id

# Response Types

  - CreateElectionResponse: election_id, admin_key
  - ElectionWithRoster: election plus candidates
  - VoteReceipt: vote_id, voter_id, candidate_id, election_id, cast_at
  - ElectionResult: per-candidate counts, percentages, ranks, winner
  - ErrorResponse: error, code, message

# Domain Types

  - Voter: external voter identifier and role
  - Party, Election, Candidate: election metadata
  - AllowedVoter: (voter_id, election_id) permission record
  - Vote: one recorded ballot

# Constants

Status values:

	StatusNotStarted = "NOT_STARTED"
	StatusOngoing    = "ONGOING"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"

Only StatusOngoing admits votes.

Roles:

	RoleVoter = "VOTER"
	RoleAdmin = "ADMIN"
*/
package models
