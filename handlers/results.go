// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/tally"
)

type ResultsHandler struct {
	cfg    cliparse.Config
	engine *tally.Engine
}

func NewResultsHandler(conn *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{
		cfg:    cfg,
		engine: tally.NewEngine(conn, db.SnapshotTxOptions(cfg.DatabaseType)),
	}
}

// GetResults handles GET /elections/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := electionID(w, r)
	if !ok {
		return
	}

	result, err := h.engine.Tally(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// GetAllResults handles GET /results
func (h *ResultsHandler) GetAllResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.engine.TallyAll(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}
