package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/svelankar/armory/internal/model"
	"github.com/svelankar/armory/internal/store"
)

// RequestsHandler implements the officer request workflow: officers submit
// requests, admins approve or reject them, and approval applies the
// corresponding lifecycle operation to the pool.
type RequestsHandler struct {
	DB *sql.DB
}

type createRequestBody struct {
	PoolID    int64  `json:"pool_id"`
	ItemID    string `json:"item_id"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	Condition string `json:"condition"`
	FIRNumber string `json:"fir_number"`
	FIRDate   string `json:"fir_date"`
}

type processRequestBody struct {
	Notes string `json:"notes"`
}

// Create handles POST /api/requests. The requesting officer comes from the
// token, never the body.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := decodeJSON(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	req := &model.Request{
		RequestedBy:      claims.UserID,
		PoolID:           body.PoolID,
		AssignedUniqueID: body.ItemID,
		Type:             body.Type,
		Reason:           body.Reason,
		Condition:        body.Condition,
		FIRNumber:        body.FIRNumber,
	}
	if body.FIRDate != "" {
		parsed, err := time.Parse("2006-01-02", body.FIRDate)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "FIR date must be YYYY-MM-DD")
			return
		}
		req.FIRDate = &parsed
	}

	created, err := store.CreateRequest(r.Context(), h.DB, req)
	if errors.Is(err, store.ErrPoolNotFound) {
		jsonError(w, http.StatusNotFound, "pool not found")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Info("request submitted", "request", created.RequestID,
		"type", created.Type, "officer", claims.Username)
	jsonResponse(w, http.StatusCreated, created)
}

// List handles GET /api/requests. Officers see only their own requests;
// admins see everything and may filter by status and type.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var requestedBy int64
	if claims.Role != model.RoleAdmin {
		requestedBy = claims.UserID
	}

	requests, err := store.ListRequests(r.Context(), h.DB,
		r.URL.Query().Get("status"), r.URL.Query().Get("type"), requestedBy)
	if err != nil {
		slog.Error("failed to list requests", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if requests == nil {
		requests = []model.Request{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Get handles GET /api/requests/{id}.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := store.GetRequest(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get request", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if req == nil {
		jsonError(w, http.StatusNotFound, "request not found")
		return
	}

	claims := GetClaims(r.Context())
	if claims.Role != model.RoleAdmin && req.RequestedBy != claims.UserID {
		jsonError(w, http.StatusForbidden, "forbidden")
		return
	}
	jsonResponse(w, http.StatusOK, req)
}

// Approve handles POST /api/requests/{id}/approve.
func (h *RequestsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body processRequestBody
	if err := decodeJSON(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	req, err := store.ApproveRequest(r.Context(), h.DB, id, claims.UserID, body.Notes)
	recordOp("approve_request", err)
	if errors.Is(err, store.ErrRequestNotFound) {
		jsonError(w, http.StatusNotFound, "request not found")
		return
	}
	if err != nil {
		lifecycleError(w, err)
		return
	}

	slog.Info("request approved", "request", req.RequestID, "type", req.Type,
		"item", req.AssignedUniqueID, "by", claims.Username)
	jsonResponse(w, http.StatusOK, req)
}

// Reject handles POST /api/requests/{id}/reject.
func (h *RequestsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var body processRequestBody
	if err := decodeJSON(r, &body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Notes == "" {
		jsonError(w, http.StatusBadRequest, "rejection reason required")
		return
	}

	claims := GetClaims(r.Context())
	req, err := store.RejectRequest(r.Context(), h.DB, id, claims.UserID, body.Notes)
	if errors.Is(err, store.ErrRequestNotFound) {
		jsonError(w, http.StatusNotFound, "request not found")
		return
	}
	if errors.Is(err, store.ErrRequestNotPending) {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to reject request", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("request rejected", "request", req.RequestID, "by", claims.Username)
	jsonResponse(w, http.StatusOK, req)
}

// Cancel handles POST /api/requests/{id}/cancel. Only the officer who
// submitted a request can cancel it, and only while it is pending.
func (h *RequestsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	claims := GetClaims(r.Context())
	req, err := store.CancelRequest(r.Context(), h.DB, id, claims.UserID)
	if errors.Is(err, store.ErrRequestNotFound) {
		jsonError(w, http.StatusNotFound, "request not found")
		return
	}
	if errors.Is(err, store.ErrRequestNotPending) {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to cancel request", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("request cancelled", "request", req.RequestID, "by", claims.Username)
	jsonResponse(w, http.StatusOK, req)
}
