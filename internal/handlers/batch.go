package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/mittwerk/assetgo/internal/middleware"
)

// batchOperator keys the staging queue. Every operator reviews their own
// batch; two scanners on the same session never share a stage.
func batchOperator(req *http.Request) string {
	if id := middleware.ActorID(req); id != "" {
		return id
	}
	return "anonymous"
}

// batchScan stages one scan without touching the session
func (r *Router) batchScan(w http.ResponseWriter, req *http.Request) {
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

	q := r.batches.Get(id, batchOperator(req))
	item, added := q.AddScan(roster, code)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"item":  item,
		"added": added, // false = duplicate, queue unchanged
	})
}

// listBatch returns the staged scans of this operator
func (r *Router) listBatch(w http.ResponseWriter, req *http.Request) {
	if _, err := r.svc.GetSession(sessionID(req)); err != nil {
		respondServiceError(w, err)
		return
	}
	q := r.batches.Get(sessionID(req), batchOperator(req))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":   q.Items(),
		"pending": q.Pending(),
	})
}

// removeBatchItem discards one staged scan before commit
func (r *Router) removeBatchItem(w http.ResponseWriter, req *http.Request) {
	index, err := strconv.Atoi(mux.Vars(req)["index"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid index")
		return
	}

	q := r.batches.Get(sessionID(req), batchOperator(req))
	if err := q.Remove(index); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":   q.Items(),
		"pending": q.Pending(),
	})
}

// commitBatch drains the stage through the check engine. Only ever called
// explicitly; a scan storm cannot mutate the session on its own.
func (r *Router) commitBatch(w http.ResponseWriter, req *http.Request) {
	id := sessionID(req)
	if _, err := r.svc.GetSession(id); err != nil {
		respondServiceError(w, err)
		return
	}

	q := r.batches.Get(id, batchOperator(req))
	sum := q.Commit(req.Context(), id, r.svc)

	if sum.Committed > 0 {
		r.notifyProgress(id)
	}
	respondJSON(w, http.StatusOK, sum)
}

// discardBatch drops the stage. While valid uncommitted items remain the
// call is refused unless forced; that is the commit-or-discard confirmation
// the client surfaces when leaving batch mode.
func (r *Router) discardBatch(w http.ResponseWriter, req *http.Request) {
	id := sessionID(req)
	op := batchOperator(req)
	q := r.batches.Get(id, op)

	if pending := q.Pending(); pending > 0 && req.URL.Query().Get("force") != "true" {
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "uncommitted scans in batch",
			"pending": pending,
		})
		return
	}

	r.batches.Drop(id, op)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Batch discarded"})
}
