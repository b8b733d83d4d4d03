// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/voteerr"
)

// requireAuthority checks X-Admin-Key against the authority key. It writes
// the 401 itself and reports whether the handler may continue.
func requireAuthority(w http.ResponseWriter, r *http.Request, salt string) bool {
	adminKey := r.Header.Get(middleware.HeaderAdminKey)
	if err := auth.ValidateAdminKey(auth.AuthorityScope, adminKey, salt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// requireElectionAdmin accepts the election's own key or the authority key.
func requireElectionAdmin(w http.ResponseWriter, r *http.Request, electionID, salt string) bool {
	adminKey := r.Header.Get(middleware.HeaderAdminKey)
	if err := auth.ValidateElectionAdmin(electionID, adminKey, salt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// electionID reads the {id} path value.
func electionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		middleware.WriteError(w, voteerr.Invalid("election_id is required"))
		return "", false
	}
	return id, true
}

func parseBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.ParseJSONBody(r, v); err != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   http.StatusText(http.StatusBadRequest),
			Code:    string(voteerr.KindInvalidInput),
			Message: "Invalid JSON",
		})
		return false
	}
	return true
}
