package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/svelankar/armory/internal/store"
)

// ReportsHandler serves aggregate inventory reports.
type ReportsHandler struct {
	DB *sql.DB
}

// Summary handles GET /api/reports/summary.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := store.Summary(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to build summary report", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}
