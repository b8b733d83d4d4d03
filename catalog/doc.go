// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package catalog stores the records elections are built from: voters,
// parties, elections and their candidate rosters. It implements the
// directory lookups the admission controller performs and the status
// transitions made by administrators and the scheduler.
package catalog
