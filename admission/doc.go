// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package admission is the entry point for casting votes.

A Controller composes four collaborators, each behind a small interface:

	Directory    voter, election and candidate lookup (catalog.Catalog)
	Eligibility  the allowed-voter registry (eligibility.Registry)
	Window       the open/closed decision (window.Authority)
	Ledger       the append-only vote store (ledger.Ledger)

No lock is taken anywhere on the path. The one-vote-per-election guarantee
comes from the ledger's UNIQUE constraint, which holds across goroutines,
connections and service instances sharing a database. Because the
eligibility and window checks are plain reads, a vote racing an
administrative change may be admitted against the state that was read; the
ledger is the only serialization point.
*/
package admission
