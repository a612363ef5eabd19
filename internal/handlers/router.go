package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mittwerk/assetgo/internal/config"
	"github.com/mittwerk/assetgo/internal/database"
	"github.com/mittwerk/assetgo/internal/inventory"
	"github.com/mittwerk/assetgo/internal/middleware"
	ws "github.com/mittwerk/assetgo/internal/websocket"
)

// Router wraps the mux router with the service dependencies
type Router struct {
	*mux.Router
	db      *database.DB
	cfg     *config.Config
	svc     *inventory.Service
	batches *inventory.BatchRegistry
	hub     *ws.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, svc *inventory.Service, hub *ws.Hub) *Router {
	r := &Router{
		Router:  mux.NewRouter(),
		db:      db,
		cfg:     cfg,
		svc:     svc,
		batches: inventory.NewBatchRegistry(),
		hub:     hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// WebSocket progress feed
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(hub, w, req)
	})

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Asset registry
	assets := api.PathPrefix("/assets").Subrouter()
	assets.HandleFunc("", r.listAssets).Methods("GET")
	assets.HandleFunc("", r.createAsset).Methods("POST")
	assets.HandleFunc("/labels.pdf", r.assetLabelSheet).Methods("GET")
	assets.HandleFunc("/{id}", r.getAsset).Methods("GET")
	assets.HandleFunc("/{id}", r.updateAsset).Methods("PUT")
	assets.HandleFunc("/{id}", r.deleteAsset).Methods("DELETE")
	assets.HandleFunc("/{id}/label.png", r.assetLabel).Methods("GET")

	// Inventory sessions
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", r.listSessions).Methods("GET")
	sessions.HandleFunc("", r.createSession).Methods("POST")
	sessions.HandleFunc("/{id}", r.getSession).Methods("GET")
	sessions.HandleFunc("/{id}", r.deleteSession).Methods("DELETE")
	sessions.HandleFunc("/{id}/start", r.startSession).Methods("POST")
	sessions.HandleFunc("/{id}/cancel", r.cancelSession).Methods("POST")
	sessions.HandleFunc("/{id}/lock", r.setLockOverride).Methods("POST")
	sessions.HandleFunc("/{id}/devices", r.listSessionDevices).Methods("GET")
	sessions.HandleFunc("/{id}/scan", r.handleScan).Methods("POST")
	sessions.HandleFunc("/{id}/check/{deviceId}", r.checkDevice).Methods("POST")
	sessions.HandleFunc("/{id}/check-batch", r.batchCheck).Methods("POST")
	sessions.HandleFunc("/{id}/progress", r.updateProgress).Methods("POST")
	sessions.HandleFunc("/{id}/missing", r.findMissingDevices).Methods("GET")
	sessions.HandleFunc("/{id}/complete", r.completeSession).Methods("POST")
	sessions.HandleFunc("/{id}/force-complete", r.forceCompleteSession).Methods("POST")
	sessions.HandleFunc("/{id}/report.pdf", r.sessionReport).Methods("GET")

	// Batch scan staging
	sessions.HandleFunc("/{id}/batch", r.listBatch).Methods("GET")
	sessions.HandleFunc("/{id}/batch", r.discardBatch).Methods("DELETE")
	sessions.HandleFunc("/{id}/batch/scan", r.batchScan).Methods("POST")
	sessions.HandleFunc("/{id}/batch/commit", r.commitBatch).Methods("POST")
	sessions.HandleFunc("/{id}/batch/{index}", r.removeBatchItem).Methods("DELETE")

	// Offline queue
	sessions.HandleFunc("/{id}/offline", r.listOffline).Methods("GET")
	sessions.HandleFunc("/{id}/offline", r.clearOffline).Methods("DELETE")
	sessions.HandleFunc("/{id}/offline/record", r.recordOffline).Methods("POST")
	sessions.HandleFunc("/{id}/offline/sync", r.syncOffline).Methods("POST")

	// Static frontend build, if configured
	if cfg.FrontendDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.FrontendDir)))
	}

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "local",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"version": "1.0.0",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps workflow errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	var missing *inventory.MissingDevicesError
	switch {
	case errors.As(err, &missing):
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "devices not checked",
			"missing": missing.Devices,
		})
	case errors.Is(err, inventory.ErrSessionNotFound),
		errors.Is(err, inventory.ErrDeviceNotFound),
		errors.Is(err, inventory.ErrCodeNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, inventory.ErrLocked):
		respondError(w, http.StatusLocked, err.Error())
	case errors.Is(err, inventory.ErrAdminRequired):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, inventory.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
