package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// recordOffline persists a scan captured without connectivity. The client
// uploads its backlog as soon as it can reach the server again; each item is
// durable from the moment this returns.
func (r *Router) recordOffline(w http.ResponseWriter, req *http.Request) {
	var body ScanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	code := strings.TrimSpace(body.Code)
	if code == "" {
		respondError(w, http.StatusBadRequest, "Empty code")
		return
	}

	id := sessionID(req)
	roster, err := r.svc.Roster(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	item, err := r.svc.Offline.Record(id, roster, code)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// listOffline returns the persisted offline queue for the session
func (r *Router) listOffline(w http.ResponseWriter, req *http.Request) {
	id := sessionID(req)
	if _, err := r.svc.GetSession(id); err != nil {
		respondServiceError(w, err)
		return
	}

	items, err := r.svc.Offline.Items(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	pending, err := r.svc.Offline.Pending(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":   items,
		"pending": pending,
	})
}

// syncOffline drains the unprocessed queue through the check engine. Safe to
// re-run after a partial failure; already-processed items are skipped.
func (r *Router) syncOffline(w http.ResponseWriter, req *http.Request) {
	id := sessionID(req)
	if _, err := r.svc.GetSession(id); err != nil {
		respondServiceError(w, err)
		return
	}

	sum, err := r.svc.Offline.Sync(req.Context(), id, r.svc)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if sum.Synced > 0 {
		r.notifyProgress(id)
	}
	respondJSON(w, http.StatusOK, sum)
}

// clearOffline abandons all staged offline work for the session
func (r *Router) clearOffline(w http.ResponseWriter, req *http.Request) {
	id := sessionID(req)
	if _, err := r.svc.GetSession(id); err != nil {
		respondServiceError(w, err)
		return
	}

	if err := r.svc.Offline.Clear(id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Offline queue cleared"})
}
