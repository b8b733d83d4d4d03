package models

import "time"

// Election status constants
const (
	StatusNotStarted = "NOT_STARTED"
	StatusOngoing    = "ONGOING"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Voter roles
const (
	RoleVoter = "VOTER"
	RoleAdmin = "ADMIN"
)

// ValidStatus reports whether s is one of the election status constants.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func ValidRole(role string) bool {
	return role == RoleVoter || role == RoleAdmin
}

// Request types

type CreateVoterRequest struct {
	VoterID  string `json:"voter_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type CreatePartyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MaxVoters   *int      `json:"max_voters,omitempty"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type AddCandidateRequest struct {
	Name    string `json:"name"`
	Bio     string `json:"bio"`
	PartyID string `json:"party_id"`
}

type RegisterAllowedVoterRequest struct {
	VoterID string `json:"voter_id"`
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
}

type ElectionWithRoster struct {
	Election   Election    `json:"election"`
	Candidates []Candidate `json:"candidates"`
}

// Domain types

type Voter struct {
	ID        string    `json:"id"`
	VoterID   string    `json:"voter_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Party struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Election struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	MaxVoters   *int      `json:"max_voters,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ElectionSummary is the voter-facing view of an election.
type ElectionSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Status      string    `json:"status"`
	MaxVoters   *int      `json:"max_voters,omitempty"`
}

func (e Election) Summary() ElectionSummary {
	return ElectionSummary{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Status:      e.Status,
		MaxVoters:   e.MaxVoters,
	}
}

type Candidate struct {
	ID         string `json:"id"`
	ElectionID string `json:"election_id"`
	PartyID    string `json:"party_id"`
	PartyName  string `json:"party_name,omitempty"`
	Name       string `json:"name"`
	Bio        string `json:"bio"`
}

type AllowedVoter struct {
	ID         string    `json:"id"`
	VoterID    string    `json:"voter_id"`
	ElectionID string    `json:"election_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"voter_id"`
	CandidateID string    `json:"candidate_id"`
	ElectionID  string    `json:"election_id"`
	CastAt      time.Time `json:"cast_at"`
}

// VoteReceipt is returned for every admitted vote.
type VoteReceipt struct {
	VoteID      string    `json:"vote_id"`
	VoterID     string    `json:"voter_id"`
	CandidateID string    `json:"candidate_id"`
	ElectionID  string    `json:"election_id"`
	CastAt      time.Time `json:"cast_at"`
}

func (v Vote) Receipt() VoteReceipt {
	return VoteReceipt{
		VoteID:      v.ID,
		VoterID:     v.VoterID,
		CandidateID: v.CandidateID,
		ElectionID:  v.ElectionID,
		CastAt:      v.CastAt,
	}
}

// Result types

type CandidateResult struct {
	CandidateID   string  `json:"candidate_id"`
	CandidateName string  `json:"candidate_name"`
	PartyID       string  `json:"party_id"`
	PartyName     string  `json:"party_name"`
	VoteCount     int64   `json:"vote_count"`
	Percentage    float64 `json:"percentage"`
	Rank          int     `json:"rank"` // 1-indexed ranking
}

type ElectionResult struct {
	ElectionID       string            `json:"election_id"`
	Title            string            `json:"title"`
	Status           string            `json:"status"`
	StartDate        time.Time         `json:"start_date"`
	EndDate          time.Time         `json:"end_date"`
	TotalVotes       int64             `json:"total_votes"`
	CandidateResults []CandidateResult `json:"candidate_results"`
	Winner           *CandidateResult  `json:"winner"`
	WinnerByTieBreak bool              `json:"winner_by_tiebreak"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
