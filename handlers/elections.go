// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/catalog"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type ElectionHandler struct {
	cfg     cliparse.Config
	catalog *catalog.Catalog
}

func NewElectionHandler(conn *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{cfg: cfg, catalog: catalog.New(conn)}
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	if !requireAuthority(w, r, h.cfg.AdminKeySalt) {
		return
	}

	var req models.CreateElectionRequest
	if !parseBody(w, r, &req) {
		return
	}

	election, err := h.catalog.CreateElection(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: election.ID,
		AdminKey:   auth.GenerateAdminKey(election.ID, h.cfg.AdminKeySalt),
	})
}

// ListElections handles GET /elections?status=
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.catalog.ListElections(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	summaries := make([]models.ElectionSummary, 0, len(elections))
	for _, e := range elections {
		summaries = append(summaries, e.Summary())
	}
	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	election, err := h.catalog.GetElection(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	roster, err := h.catalog.Roster(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithRoster{
		Election:   election,
		Candidates: roster,
	})
}

// SetStatus handles PUT /elections/{id}/status
func (h *ElectionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok || !requireElectionAdmin(w, r, id, h.cfg.AdminKeySalt) {
		return
	}

	var req models.SetStatusRequest
	if !parseBody(w, r, &req) {
		return
	}

	election, err := h.catalog.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, election)
}

// DeleteElection handles DELETE /elections/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok || !requireElectionAdmin(w, r, id, h.cfg.AdminKeySalt) {
		return
	}

	if err := h.catalog.DeleteElection(r.Context(), id); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCandidate handles POST /elections/{id}/candidates
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok || !requireElectionAdmin(w, r, id, h.cfg.AdminKeySalt) {
		return
	}

	var req models.AddCandidateRequest
	if !parseBody(w, r, &req) {
		return
	}

	candidate, err := h.catalog.CreateCandidate(r.Context(), id, req.PartyID, req.Name, req.Bio)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, candidate)
}
