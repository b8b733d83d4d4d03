// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier generation and admin key utilities.

The service does not authenticate voters. The upstream identity layer resolves
a voter and forwards the identifier in the X-Voter-ID header; VoterIdentity
only normalizes it.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same scope and salt always produce the same key. This allows validation
without storing the key in the database.

The authority key (scope AuthorityScope) guards operations that span
elections and is also accepted for every election:

	err := auth.ValidateElectionAdmin(electionID, adminKey, salt)

# ID Generation

Record identifiers are UUIDv7 strings:

	id, err := auth.GenerateID()

They are time ordered, so "lowest identifier" roughly means "created first".
*/
package auth
