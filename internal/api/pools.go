package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/svelankar/armory/internal/imaging"
	"github.com/svelankar/armory/internal/model"
	"github.com/svelankar/armory/internal/pool"
	"github.com/svelankar/armory/internal/store"
)

// PoolsHandler handles equipment pool endpoints.
type PoolsHandler struct {
	DB *sql.DB
}

type createPoolRequest struct {
	PoolName     string   `json:"pool_name"`
	Category     string   `json:"category"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
	IDPrefix     string   `json:"id_prefix"`
	Quantity     int      `json:"quantity"`
	Designations []string `json:"authorized_designations"`
}

// List handles GET /api/pools.
func (h *PoolsHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	pools, err := store.ListPools(r.Context(), h.DB, category)
	if err != nil {
		slog.Error("failed to list pools", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list pools")
		return
	}
	if pools == nil {
		pools = []model.Pool{}
	}
	jsonResponse(w, http.StatusOK, pools)
}

// Create handles POST /api/pools. The pool is created with its full
// complement of freshly generated items.
func (h *PoolsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPoolRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := pool.New(req.PoolName, req.Category, req.Model, req.Manufacturer,
		req.IDPrefix, req.Quantity, req.Designations)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := store.CreatePool(r.Context(), h.DB, p)
	if err != nil {
		slog.Error("failed to create pool", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create pool")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("pool created", "user", claims.Username, "pool", created.PoolName,
		"quantity", created.TotalQuantity)
	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/pools/{id}, returning the full pool document
// including items and their ledgers.
func (h *PoolsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	p, err := store.GetPool(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get pool", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get pool")
		return
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, "pool not found")
		return
	}

	jsonResponse(w, http.StatusOK, p)
}

// GetItem handles GET /api/pools/{id}/items/{uid}: one item with its usage,
// maintenance, and loss ledgers.
func (h *PoolsHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	p, err := store.GetPool(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get pool", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get pool")
		return
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, "pool not found")
		return
	}

	item := pool.FindItem(p, r.PathValue("uid"))
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found in pool")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/pools/{id}. Pools cascade: the items go with
// the document.
func (h *PoolsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	p, err := store.GetPool(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get pool")
		return
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, "pool not found")
		return
	}
	if p.IssuedCount > 0 {
		jsonError(w, http.StatusConflict, "pool has issued items; collect them before deleting")
		return
	}

	if err := store.DeletePool(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete pool", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete pool")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("pool deleted", "user", claims.Username, "pool", p.PoolName)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "pool deleted"})
}

// UploadImage handles PUT /api/pools/{id}/image.
func (h *PoolsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Normalize(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetPoolImage(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/pools/{id}/image.
func (h *PoolsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid pool id")
		return
	}

	data, mime, err := store.GetPoolImage(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
