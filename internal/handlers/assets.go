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
)

// listAssets returns the asset registry, optionally filtered by a substring
// search over name, serial and inventory number. This is the list search
// feature; the scan path resolves codes by exact match only.
func (r *Router) listAssets(w http.ResponseWriter, req *http.Request) {
	var assets []models.Asset
	q := r.db.Order("id")

	if search := req.URL.Query().Get("q"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR serial_number ILIKE ? OR inventory_number ILIKE ?", like, like, like)
	}

	if err := q.Find(&assets).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch assets")
		return
	}
	respondJSON(w, http.StatusOK, assets)
}

// getAsset returns a single asset
func (r *Router) getAsset(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, _ := strconv.ParseUint(vars["id"], 10, 32)

	var asset models.Asset
	if err := r.db.First(&asset, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Asset not found")
		return
	}
	respondJSON(w, http.StatusOK, asset)
}

// createAsset registers a new asset
func (r *Router) createAsset(w http.ResponseWriter, req *http.Request) {
	var asset models.Asset
	if err := json.NewDecoder(req.Body).Decode(&asset); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if asset.Name == "" || asset.InventoryNumber == "" {
		respondError(w, http.StatusBadRequest, "Name and inventory number are required")
		return
	}
	if err := r.db.Create(&asset).Error; err != nil {
		respondError(w, http.StatusBadRequest, "Failed to create asset (inventory number might exist)")
		return
	}
	respondJSON(w, http.StatusCreated, asset)
}

// assetEditsAllowed enforces the registry-wide structural edit lock
func (r *Router) assetEditsAllowed(w http.ResponseWriter, req *http.Request) bool {
	active, err := r.svc.AnyActiveSession()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	if inventory.AssetEditsLocked(active, middleware.ActorRole(req)) {
		respondError(w, http.StatusLocked, "asset edits are locked while an inventory session is active")
		return false
	}
	return true
}

// updateAsset changes structural fields of an asset. Locked while a session
// is active, unless the actor is an admin.
func (r *Router) updateAsset(w http.ResponseWriter, req *http.Request) {
	if !r.assetEditsAllowed(w, req) {
		return
	}

	vars := mux.Vars(req)
	id, _ := strconv.ParseUint(vars["id"], 10, 32)

	var asset models.Asset
	if err := r.db.First(&asset, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Asset not found")
		return
	}

	var updates models.Asset
	if err := json.NewDecoder(req.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	asset.Name = updates.Name
	asset.SerialNumber = updates.SerialNumber
	asset.InventoryNumber = updates.InventoryNumber
	asset.Location = updates.Location
	asset.Status = updates.Status
	asset.AssignedTo = updates.AssignedTo
	asset.Metadata = updates.Metadata

	if err := r.db.Save(&asset).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update asset")
		return
	}
	respondJSON(w, http.StatusOK, asset)
}

// deleteAsset removes an asset from the registry. Same lock as updates.
func (r *Router) deleteAsset(w http.ResponseWriter, req *http.Request) {
	if !r.assetEditsAllowed(w, req) {
		return
	}

	vars := mux.Vars(req)
	id, _ := strconv.ParseUint(vars["id"], 10, 32)

	if err := r.db.Delete(&models.Asset{}, id).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete asset")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Asset deleted"})
}

// assetLabel serves the QR label of one asset as PNG
func (r *Router) assetLabel(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	id, _ := strconv.ParseUint(vars["id"], 10, 32)

	var asset models.Asset
	if err := r.db.First(&asset, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Asset not found")
		return
	}

	png, err := printer.GenerateLabelPNG(&asset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// assetLabelSheet serves a printable PDF of QR labels for all (or selected) assets
func (r *Router) assetLabelSheet(w http.ResponseWriter, req *http.Request) {
	var assets []models.Asset
	q := r.db.Order("id")
	if raw := req.URL.Query()["id"]; len(raw) > 0 {
		ids := make([]uint, 0, len(raw))
		for _, s := range raw {
			if id, err := strconv.ParseUint(s, 10, 32); err == nil {
				ids = append(ids, uint(id))
			}
		}
		q = q.Where("id IN ?", ids)
	}
	if err := q.Find(&assets).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch assets")
		return
	}

	pdf, err := printer.GenerateLabelSheetPDF(assets, printer.DefaultLabelConfig)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=asset-labels.pdf")
	w.Write(pdf)
}
