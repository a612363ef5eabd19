package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mittwerk/assetgo/internal/inventory"
)

// ScanRequest represents the payload from a scanner
type ScanRequest struct {
	Code string `json:"code"`
}

// ScanResponse standardizes the scan result
type ScanResponse struct {
	Type    string      `json:"type"`           // device
	Message string      `json:"message"`        // Human readable status
	Action  string      `json:"action"`         // checked, already_checked
	Data    interface{} `json:"data,omitempty"` // The resulting check state
}

// handleScan is the online single-scan path: resolve the code against the
// session roster and check the matching device immediately.
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) {
	var body ScanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	code := strings.TrimSpace(body.Code)
	if len(code) < 1 {
		respondError(w, http.StatusBadRequest, "Empty code")
		return
	}

	id := sessionID(req)
	result, err := r.svc.CheckByCode(req.Context(), id, code)
	if errors.Is(err, inventory.ErrCodeNotFound) {
		respondJSON(w, http.StatusNotFound, ScanResponse{
			Type:    "device",
			Action:  "not_found",
			Message: "Code matches no device in this session",
		})
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	r.notifyProgress(id)

	// The operator is told explicitly when a device was scanned twice
	resp := ScanResponse{Type: "device", Action: "checked", Message: "Device checked", Data: result}
	if result.AlreadyChecked {
		resp.Action = "already_checked"
		resp.Message = "Device was already checked"
	}
	respondJSON(w, http.StatusOK, resp)
}
