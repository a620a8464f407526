package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/svelankar/armory/internal/pool"
	"github.com/svelankar/armory/internal/store"
)

// LifecycleHandler exposes the pool lifecycle operations to the admin desk:
// issue, return, repair, loss reporting and resolution. Every operation
// mutates one item inside its pool and persists the document atomically.
type LifecycleHandler struct {
	DB *sql.DB
}

type issueRequest struct {
	UserID  int64  `json:"user_id"`
	Purpose string `json:"purpose"`
}

type returnRequest struct {
	Condition string `json:"condition"`
	Remarks   string `json:"remarks"`
}

type reportRequest struct {
	Description string `json:"description"`
}

type repairRequest struct {
	Action    string  `json:"action"`
	Condition string  `json:"condition"`
	FixedBy   string  `json:"fixed_by"`
	Cost      float64 `json:"cost"`
}

type lostRequest struct {
	FIRNumber   string `json:"fir_number"`
	FIRDate     string `json:"fir_date"`
	Description string `json:"description"`
}

type resolveRequest struct {
	Notes     string `json:"notes"`
	Condition string `json:"condition"`
}

func poolID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

// Issue handles POST /api/pools/{id}/issue.
func (h *LifecycleHandler) Issue(w http.ResponseWriter, r *http.Request) {
	id, ok := poolID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	var req issueRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	officer, err := store.GetUser(r.Context(), h.DB, req.UserID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if officer == nil || officer.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "officer not found")
		return
	}

	claims := GetClaims(r.Context())
	item, p, err := store.IssueFromPool(r.Context(), h.DB, id, pool.Custodian{
		UserID:      officer.ID,
		OfficerID:   officer.OfficerID,
		OfficerName: officer.FullName,
		Designation: officer.Designation,
	}, req.Purpose, claims.UserID)
	recordOp("issue", err)
	if err != nil {
		lifecycleError(w, err)
		return
	}

	slog.Info("item issued", "pool", p.PoolName, "item", item.UniqueID,
		"officer", officer.FullName, "by", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]any{
		"unique_id":       item.UniqueID,
		"issued_date":     item.CurrentlyIssuedTo.IssuedDate,
		"available_count": p.AvailableCount,
	})
}

// Return handles POST /api/pools/{id}/items/{uid}/return.
func (h *LifecycleHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := poolID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	var req returnRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	item, p, err := store.ReturnToPool(r.Context(), h.DB, id, r.PathValue("uid"),
		req.Condition, req.Remarks, claims.UserID)
	recordOp("return", err)
	if err != nil {
		lifecycleError(w, err)
		return
	}

	last := item.UsageHistory[len(item.UsageHistory)-1]
	slog.Info("item returned", "pool", p.PoolName, "item", item.UniqueID,
		"condition", item.Condition, "status", item.Status, "days_used", last.DaysUsed)
	jsonResponse(w, http.StatusOK, map[string]any{
		"unique_id":       item.UniqueID,
		"days_used":       last.DaysUsed,
		"condition":       item.Condition,
		"status":          item.Status,
		"available_count": p.AvailableCount,
	})
}

// Report handles POST /api/pools/{id}/items/{uid}/report: an explicit
// officer problem report that sends the item to maintenance.
func (h *LifecycleHandler) Report(w http.ResponseWriter, r *http.Request) {
	id, ok := poolID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		jsonError(w, http.StatusBadRequest, "description required")
		return
	}

	claims := GetClaims(r.Context())
	item, p, err := store.ReportItemProblem(r.Context(), h.DB, id, r.PathValue("uid"),
		req.Description, claims.Username)
	recordOp("report", err)
	if err != nil {
		lifecycleError(w, err)
		return
	}

	slog.Info("item sent to maintenance", "pool", p.PoolName, "item", item.UniqueID, "by", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]any{"unique_id": item.UniqueID, "status": item.Status})
}

// Repair handles POST /api/pools/{id}/items/{uid}/repair.
func (h *LifecycleHandler) Repair(w http.ResponseWriter, r *http.Request) {
	id, ok := poolID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	var req repairRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Action == "" {
		jsonError(w, http.StatusBadRequest, "action description required")
		return
	}

	claims := GetClaims(r.Context())
	fixedBy := req.FixedBy
	if fixedBy == "" {
		fixedBy = claims.Username
	}

	item, p, err := store.CompleteItemRepair(r.Context(), h.DB, id, r.PathValue("uid"),
		req.Action, req.Condition, fixedBy, req.Cost)
	recordOp("repair", err)
	if err != nil {
		lifecycleError(w, err)
		return
	}

	slog.Info("item repaired", "pool", p.PoolName, "item", item.UniqueID, "condition", item.Condition)
	jsonResponse(w, http.StatusOK, map[string]any{"unique_id": item.UniqueID, "new_status": item.Status})
}

// Lost handles POST /api/pools/{id}/items/{uid}/lost: opens a loss
// investigation for an issued item.
func (h *LifecycleHandler) Lost(w http.ResponseWriter, r *http.Request) {
	id, ok := poolID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	var req lostRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FIRNumber == "" {
		jsonError(w, http.StatusBadRequest, "FIR number required")
		return
	}

	firDate := time.Now()
	if req.FIRDate != "" {
		parsed, err := time.Parse("2006-01-02", req.FIRDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "FIR date must be YYYY-MM-DD")
			return
		}
		firDate = parsed
	}

	item, p, err := store.MarkItemLost(r.Context(), h.DB, id, r.PathValue("uid"),
		req.FIRNumber, firDate, req.Description)
	recordOp("lost", err)
	if err != nil {
		lifecycleError(w, err)
		return
	}

	slog.Info("item reported lost", "pool", p.PoolName, "item", item.UniqueID, "fir", req.FIRNumber)
	jsonResponse(w, http.StatusOK, map[string]any{"unique_id": item.UniqueID})
}

// WriteOff handles POST /api/pools/{id}/items/{uid}/write-off.
func (h *LifecycleHandler) WriteOff(w http.ResponseWriter, r *http.Request) {
	id, ok := poolID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, p, err := store.WriteOffItem(r.Context(), h.DB, id, r.PathValue("uid"), req.Notes)
	recordOp("write_off", err)
	if err != nil {
		lifecycleError(w, err)
		return
	}

	slog.Info("item written off", "pool", p.PoolName, "item", item.UniqueID)
	jsonResponse(w, http.StatusOK, map[string]any{"unique_id": item.UniqueID})
}

// Recover handles POST /api/pools/{id}/items/{uid}/recover.
func (h *LifecycleHandler) Recover(w http.ResponseWriter, r *http.Request) {
	id, ok := poolID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Condition == "" {
		jsonError(w, http.StatusBadRequest, "recovered condition required")
		return
	}

	item, p, err := store.RecoverItem(r.Context(), h.DB, id, r.PathValue("uid"),
		req.Notes, req.Condition)
	recordOp("recover", err)
	if err != nil {
		lifecycleError(w, err)
		return
	}

	slog.Info("item recovered", "pool", p.PoolName, "item", item.UniqueID, "status", item.Status)
	jsonResponse(w, http.StatusOK, map[string]any{"unique_id": item.UniqueID, "new_status": item.Status})
}
