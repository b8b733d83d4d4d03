// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/catalog"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/eligibility"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// RegistryHandler manages voter identities, parties and per-election
// eligibility.
type RegistryHandler struct {
	cfg      cliparse.Config
	catalog  *catalog.Catalog
	registry *eligibility.Registry
}

func NewRegistryHandler(conn *sql.DB, cfg cliparse.Config) *RegistryHandler {
	return &RegistryHandler{
		cfg:      cfg,
		catalog:  catalog.New(conn),
		registry: eligibility.New(conn),
	}
}

// CreateVoter handles POST /voters
func (h *RegistryHandler) CreateVoter(w http.ResponseWriter, r *http.Request) {
	if !requireAuthority(w, r, h.cfg.AdminKeySalt) {
		return
	}

	var req models.CreateVoterRequest
	if !parseBody(w, r, &req) {
		return
	}

	voter, err := h.catalog.CreateVoter(r.Context(), req.VoterID, req.Username, req.Role)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, voter)
}

// CreateParty handles POST /parties
func (h *RegistryHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	if !requireAuthority(w, r, h.cfg.AdminKeySalt) {
		return
	}

	var req models.CreatePartyRequest
	if !parseBody(w, r, &req) {
		return
	}

	party, err := h.catalog.CreateParty(r.Context(), req.Name, req.Description)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, party)
}

// ListParties handles GET /parties
func (h *RegistryHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.catalog.ListParties(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, parties)
}

// RegisterAllowedVoter handles POST /elections/{id}/allowed-voters
func (h *RegistryHandler) RegisterAllowedVoter(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok || !requireElectionAdmin(w, r, id, h.cfg.AdminKeySalt) {
		return
	}

	var req models.RegisterAllowedVoterRequest
	if !parseBody(w, r, &req) {
		return
	}

	allowed, err := h.registry.Register(r.Context(), req.VoterID, id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, allowed)
}

// ListAllowedVoters handles GET /elections/{id}/allowed-voters
func (h *RegistryHandler) ListAllowedVoters(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok || !requireElectionAdmin(w, r, id, h.cfg.AdminKeySalt) {
		return
	}

	if _, err := h.catalog.GetElection(r.Context(), id); err != nil {
		middleware.WriteError(w, err)
		return
	}
	allowed, err := h.registry.List(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, allowed)
}

// RevokeAllowedVoter handles DELETE /elections/{id}/allowed-voters/{voterId}
func (h *RegistryHandler) RevokeAllowedVoter(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok || !requireElectionAdmin(w, r, id, h.cfg.AdminKeySalt) {
		return
	}

	if err := h.registry.Revoke(r.Context(), r.PathValue("voterId"), id); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
