package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mittwerk/assetgo/internal/inventory"
	"github.com/mittwerk/assetgo/internal/middleware"
	"github.com/mittwerk/assetgo/internal/models"
	"github.com/mittwerk/assetgo/internal/services/printer"
	ws "github.com/mittwerk/assetgo/internal/websocket"
)

// sessionID extracts the {id} path variable
func sessionID(req *http.Request) uint {
	id, _ := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	return uint(id)
}

// notifyProgress pushes the session counters to every connected console
func (r *Router) notifyProgress(id uint) {
	session, err := r.svc.GetSession(id)
	if err != nil {
		return
	}
	evt := ws.ProgressEvent{
		Type:           ws.EventSessionProgress,
		SessionID:      session.ID,
		Status:         session.Status,
		CheckedDevices: session.CheckedDevices,
		TotalDevices:   session.TotalDevices,
		Progress:       session.Progress,
	}
	if session.Status == models.SessionStatusCompleted {
		evt.Type = ws.EventSessionCompleted
	}
	r.hub.Broadcast(evt)
}

// listSessions returns all inventory sessions
func (r *Router) listSessions(w http.ResponseWriter, req *http.Request) {
	sessions, err := r.svc.ListSessions()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}

// createSession creates a planned session with a roster snapshot
func (r *Router) createSession(w http.ResponseWriter, req *http.Request) {
	var in inventory.CreateSessionInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if actor := middleware.ActorID(req); actor != "" {
		in.Actor = &actor
	}

	session, err := r.svc.CreateSession(in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

// getSession returns one session
func (r *Router) getSession(w http.ResponseWriter, req *http.Request) {
	session, err := r.svc.GetSession(sessionID(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// deleteSession removes a session; refused by the lock policy while active
func (r *Router) deleteSession(w http.ResponseWriter, req *http.Request) {
	if err := r.svc.DeleteSession(sessionID(req), middleware.ActorRole(req)); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}

// startSession moves a planned session to active
func (r *Router) startSession(w http.ResponseWriter, req *http.Request) {
	session, err := r.svc.StartSession(sessionID(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// cancelSession aborts a session
func (r *Router) cancelSession(w http.ResponseWriter, req *http.Request) {
	session, err := r.svc.CancelSession(sessionID(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// setLockOverride sets or clears the manual lock toggle (admin only)
func (r *Router) setLockOverride(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Locked *bool `json:"locked"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	session, err := r.svc.SetLockOverride(sessionID(req), body.Locked, middleware.ActorRole(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// listSessionDevices returns the roster
func (r *Router) listSessionDevices(w http.ResponseWriter, req *http.Request) {
	devices, err := r.svc.Roster(sessionID(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, devices)
}

// checkDevice marks a single roster device as verified
func (r *Router) checkDevice(w http.ResponseWriter, req *http.Request) {
	id := sessionID(req)
	deviceID, _ := strconv.ParseUint(mux.Vars(req)["deviceId"], 10, 32)

	result, err := r.svc.CheckDevice(req.Context(), id, uint(deviceID))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	r.notifyProgress(id)
	respondJSON(w, http.StatusOK, result)
}

// batchCheck marks a list of roster devices as verified
func (r *Router) batchCheck(w http.ResponseWriter, req *http.Request) {
	var body struct {
		DeviceIDs []uint `json:"deviceIds"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	id := sessionID(req)
	sum, err := r.svc.BatchCheck(req.Context(), id, body.DeviceIDs)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	r.notifyProgress(id)
	respondJSON(w, http.StatusOK, sum)
}

// updateProgress recounts the roster and returns the fresh counters
func (r *Router) updateProgress(w http.ResponseWriter, req *http.Request) {
	session, err := r.svc.UpdateProgress(sessionID(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"progress":       session.Progress,
		"checkedDevices": session.CheckedDevices,
	})
}

// findMissingDevices lists roster entries not yet checked
func (r *Router) findMissingDevices(w http.ResponseWriter, req *http.Request) {
	missing, err := r.svc.MissingDevices(sessionID(req))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, missing)
}

// completeSession finalizes a session; refused while devices are missing
func (r *Router) completeSession(w http.ResponseWriter, req *http.Request) {
	id := sessionID(req)
	session, err := r.svc.Complete(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	r.notifyProgress(id)
	respondJSON(w, http.StatusOK, session)
}

// forceCompleteSession finalizes a session despite missing devices
func (r *Router) forceCompleteSession(w http.ResponseWriter, req *http.Request) {
	id := sessionID(req)
	session, err := r.svc.ForceComplete(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	r.notifyProgress(id)
	respondJSON(w, http.StatusOK, session)
}

// sessionReport serves the verification protocol PDF
func (r *Router) sessionReport(w http.ResponseWriter, req *http.Request) {
	id := sessionID(req)
	session, err := r.svc.GetSession(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	roster, err := r.svc.Roster(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	pdf, err := printer.GenerateSessionReportPDF(session, roster)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=inventur-protokoll.pdf")
	w.Write(pdf)
}
