package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/svelankar/armory/internal/pool"
	"github.com/svelankar/armory/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// lifecycleError maps a pool lifecycle failure to an HTTP response. Domain
// errors carry user-displayable reasons and must never be collapsed into a
// generic failure, so the approval UI can show why a request is blocked.
func lifecycleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pool.ErrInvalidCondition):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrPoolNotFound), errors.Is(err, pool.ErrItemNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pool.ErrNotAuthorized):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, pool.ErrNoAvailableItems),
		errors.Is(err, pool.ErrNotIssued),
		errors.Is(err, pool.ErrNotInMaintenance),
		errors.Is(err, pool.ErrInvalidTransition),
		errors.Is(err, store.ErrRequestNotPending):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("lifecycle operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
