package api

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/svelankar/armory/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	poolsHandler := &PoolsHandler{DB: db}
	lifecycleHandler := &LifecycleHandler{DB: db}
	requestsHandler := &RequestsHandler{DB: db}
	reportsHandler := &ReportsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login and metrics.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Pools: read (all roles), write (admin).
	mux.Handle("GET /api/pools", authMW(http.HandlerFunc(poolsHandler.List)))
	mux.Handle("POST /api/pools", authMW(requireAdmin(http.HandlerFunc(poolsHandler.Create))))
	mux.Handle("GET /api/pools/{id}", authMW(http.HandlerFunc(poolsHandler.Get)))
	mux.Handle("DELETE /api/pools/{id}", authMW(requireAdmin(http.HandlerFunc(poolsHandler.Delete))))
	mux.Handle("GET /api/pools/{id}/items/{uid}", authMW(http.HandlerFunc(poolsHandler.GetItem)))
	mux.Handle("PUT /api/pools/{id}/image", authMW(requireAdmin(http.HandlerFunc(poolsHandler.UploadImage))))
	mux.Handle("GET /api/pools/{id}/image", authMW(http.HandlerFunc(poolsHandler.GetImage)))

	// Lifecycle operations (admin).
	mux.Handle("POST /api/pools/{id}/issue", authMW(requireAdmin(http.HandlerFunc(lifecycleHandler.Issue))))
	mux.Handle("POST /api/pools/{id}/items/{uid}/return", authMW(requireAdmin(http.HandlerFunc(lifecycleHandler.Return))))
	mux.Handle("POST /api/pools/{id}/items/{uid}/report", authMW(requireAdmin(http.HandlerFunc(lifecycleHandler.Report))))
	mux.Handle("POST /api/pools/{id}/items/{uid}/repair", authMW(requireAdmin(http.HandlerFunc(lifecycleHandler.Repair))))
	mux.Handle("POST /api/pools/{id}/items/{uid}/lost", authMW(requireAdmin(http.HandlerFunc(lifecycleHandler.Lost))))
	mux.Handle("POST /api/pools/{id}/items/{uid}/write-off", authMW(requireAdmin(http.HandlerFunc(lifecycleHandler.WriteOff))))
	mux.Handle("POST /api/pools/{id}/items/{uid}/recover", authMW(requireAdmin(http.HandlerFunc(lifecycleHandler.Recover))))

	// Requests: officers submit and cancel, admins process.
	mux.Handle("POST /api/requests", authMW(http.HandlerFunc(requestsHandler.Create)))
	mux.Handle("GET /api/requests", authMW(http.HandlerFunc(requestsHandler.List)))
	mux.Handle("GET /api/requests/{id}", authMW(http.HandlerFunc(requestsHandler.Get)))
	mux.Handle("POST /api/requests/{id}/approve", authMW(requireAdmin(http.HandlerFunc(requestsHandler.Approve))))
	mux.Handle("POST /api/requests/{id}/reject", authMW(requireAdmin(http.HandlerFunc(requestsHandler.Reject))))
	mux.Handle("POST /api/requests/{id}/cancel", authMW(http.HandlerFunc(requestsHandler.Cancel)))

	// Reports (admin).
	mux.Handle("GET /api/reports/summary", authMW(requireAdmin(http.HandlerFunc(reportsHandler.Summary))))

	return mux
}
