// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AuthorityScope is the admin key scope for operations that are not tied to
// a single election (voters, parties, creating elections).
const AuthorityScope = "authority"

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrMissingVoterID  = errors.New("missing voter identity")
)

// GenerateID creates a time-ordered UUIDv7 string. Record identifiers sort
// roughly by creation time, which keeps id-ordered listings stable and
// meaningful.
func GenerateID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	return id.String(), nil
}

// GenerateAdminKey creates an HMAC-based admin key for a scope (an election
// ID or AuthorityScope). This is deterministic and verifiable
func GenerateAdminKey(scope, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(scope))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the scope
func ValidateAdminKey(scope, adminKey, salt string) error {
	if adminKey == "" {
		return ErrInvalidAdminKey
	}
	expected := GenerateAdminKey(scope, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// ValidateElectionAdmin accepts either the election's own key or the
// authority key.
func ValidateElectionAdmin(electionID, adminKey, salt string) error {
	if ValidateAdminKey(electionID, adminKey, salt) == nil {
		return nil
	}
	return ValidateAdminKey(AuthorityScope, adminKey, salt)
}

// VoterIdentity normalizes the voter identifier handed over by the upstream
// identity layer.
func VoterIdentity(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ErrMissingVoterID
	}
	return id, nil
}
