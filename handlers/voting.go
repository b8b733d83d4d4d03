// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/admission"
	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type VotingHandler struct {
	cfg        cliparse.Config
	controller *admission.Controller
}

func NewVotingHandler(conn *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{cfg: cfg, controller: admission.New(conn)}
}

// voterIdentity reads X-Voter-ID, set by the upstream identity proxy.
func voterIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	voterID, err := auth.VoterIdentity(r.Header.Get(middleware.HeaderVoterID))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing voter identity")
		return "", false
	}
	return voterID, true
}

// CastVote handles POST /elections/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}
	voterID, ok := voterIdentity(w, r)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if !parseBody(w, r, &req) {
		return
	}
	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	receipt, err := h.controller.CastVote(r.Context(), voterID, req.CandidateID, id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, receipt)
}

// ParticipatedElections handles GET /voters/{voterId}/elections. A voter may
// only list their own elections.
func (h *VotingHandler) ParticipatedElections(w http.ResponseWriter, r *http.Request) {
	voterID, ok := voterIdentity(w, r)
	if !ok {
		return
	}
	if r.PathValue("voterId") != voterID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Voters can only list their own elections")
		return
	}

	elections, err := h.controller.ParticipatedElections(r.Context(), voterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, elections)
}
