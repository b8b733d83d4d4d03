// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voteerr

import (
	"errors"
	"fmt"
)

// Kind classifies a rejection. The set is closed: callers switch on it.
type Kind string

const (
	KindNotFound                  Kind = "NOT_FOUND"
	KindCandidateElectionMismatch Kind = "CANDIDATE_ELECTION_MISMATCH"
	KindNotEligible               Kind = "NOT_ELIGIBLE"
	KindElectionNotOpen           Kind = "ELECTION_NOT_OPEN"
	KindAlreadyVoted              Kind = "ALREADY_VOTED"
	KindDuplicateRegistration     Kind = "DUPLICATE_REGISTRATION"
	KindRegistrationInUse         Kind = "REGISTRATION_IN_USE"
	KindElectionHasRecordedVotes  Kind = "ELECTION_HAS_RECORDED_VOTES"
	KindInvalidInput              Kind = "INVALID_INPUT"
	KindStorageFailure            Kind = "STORAGE_FAILURE"
)

// Entities named by NotFound and DuplicateRegistration errors.
const (
	EntityVoter        = "voter"
	EntityElection     = "election"
	EntityCandidate    = "candidate"
	EntityParty        = "party"
	EntityAllowedVoter = "allowed voter"
	EntityVote         = "vote"
)

// Error is the only error type returned for business rejections.
// Err carries the underlying cause (usually a driver error) for logging; it
// is never part of Error().
type Error struct {
	Kind    Kind
	Entity  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return defaultMessage(e.Kind, e.Entity)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, and on Entity when the target names one. This lets
// errors.Is(err, ErrNotFound) match any missing entity while
// errors.Is(err, ErrUnknownElection) matches only a missing election.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Entity == "" || t.Entity == e.Entity
}

var (
	ErrNotFound                  = &Error{Kind: KindNotFound}
	ErrUnknownElection           = &Error{Kind: KindNotFound, Entity: EntityElection}
	ErrCandidateElectionMismatch = &Error{Kind: KindCandidateElectionMismatch}
	ErrNotEligible               = &Error{Kind: KindNotEligible}
	ErrElectionNotOpen           = &Error{Kind: KindElectionNotOpen}
	ErrAlreadyVoted              = &Error{Kind: KindAlreadyVoted}
	ErrDuplicateRegistration     = &Error{Kind: KindDuplicateRegistration}
	ErrRegistrationInUse         = &Error{Kind: KindRegistrationInUse}
	ErrElectionHasRecordedVotes  = &Error{Kind: KindElectionHasRecordedVotes}
	ErrInvalidInput              = &Error{Kind: KindInvalidInput}
	ErrStorageFailure            = &Error{Kind: KindStorageFailure}
)

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity}
}

func Duplicate(entity string) *Error {
	return &Error{Kind: KindDuplicateRegistration, Entity: entity}
}

func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a driver error. The cause stays reachable through errors.Unwrap
// but never leaks into the message.
func Storage(op string, err error) *Error {
	return &Error{
		Kind:    KindStorageFailure,
		Message: "storage failure during " + op,
		Err:     err,
	}
}

// New builds an error of the given kind with the default message.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// KindOf reports the kind of err, or KindStorageFailure for anything that is
// not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorageFailure
}

// Retryable reports whether a caller may resubmit after err.
func Retryable(err error) bool {
	return KindOf(err) == KindStorageFailure
}

func defaultMessage(kind Kind, entity string) string {
	switch kind {
	case KindNotFound:
		if entity == "" {
			return "not found"
		}
		return entity + " not found"
	case KindCandidateElectionMismatch:
		return "candidate does not belong to this election"
	case KindNotEligible:
		return "voter is not allowed to vote in this election"
	case KindElectionNotOpen:
		return "election is not open for voting"
	case KindAlreadyVoted:
		return "voter has already voted in this election"
	case KindDuplicateRegistration:
		if entity == "" {
			return "already registered"
		}
		return entity + " already registered"
	case KindRegistrationInUse:
		return "registration has a recorded vote and cannot be revoked"
	case KindElectionHasRecordedVotes:
		return "election has recorded votes"
	case KindInvalidInput:
		return "invalid input"
	default:
		return "storage failure"
	}
}
