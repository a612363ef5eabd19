package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mittwerk/assetgo/internal/models"
)

// Checker applies one verified check-in against a session roster.
// *Service is the production implementation; tests substitute stubs.
type Checker interface {
	CheckDevice(ctx context.Context, sessionID, deviceID uint) (CheckResult, error)
}

// CheckResult reports the outcome of a single check-in
type CheckResult struct {
	Device         models.SessionDevice `json:"device"`
	AlreadyChecked bool                 `json:"alreadyChecked"`
	CheckedDevices int                  `json:"checkedDevices"`
	TotalDevices   int                  `json:"totalDevices"`
	Progress       int                  `json:"progress"`
}

// BatchItem is one staged scan awaiting commit
type BatchItem struct {
	Code       string    `json:"code"`
	ScannedAt  time.Time `json:"scannedAt"`
	DeviceID   *uint     `json:"deviceId,omitempty"`
	DeviceName string    `json:"deviceName,omitempty"`
	Valid      bool      `json:"valid"`
	Processed  bool      `json:"processed"`
}

// BatchSummary reports the outcome of a commit
type BatchSummary struct {
	Committed  int `json:"committed"`
	Unresolved int `json:"unresolved"`
	Failed     int `json:"failed"`
}

// BatchQueue stages scans during a batch interaction. Nothing touches the
// session until Commit; the operator reviews, removes mis-scans, then commits
// or discards explicitly.
type BatchQueue struct {
	mu    sync.Mutex
	items []BatchItem
}

// NewBatchQueue returns an empty queue
func NewBatchQueue() *BatchQueue {
	return &BatchQueue{}
}

// AddScan resolves code against the roster and stages it. A code already
// staged (by code or by resolved device) is not added again; the second
// return value reports whether the item was actually appended.
func (q *BatchQueue) AddScan(roster []models.SessionDevice, code string) (BatchItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item := BatchItem{Code: code, ScannedAt: time.Now()}
	if dev, ok := ResolveCode(roster, code); ok {
		id := dev.ID
		item.DeviceID = &id
		item.DeviceName = dev.Name
		item.Valid = true
	}

	for _, existing := range q.items {
		if existing.Code == code {
			return existing, false
		}
		if item.DeviceID != nil && existing.DeviceID != nil && *existing.DeviceID == *item.DeviceID {
			return existing, false
		}
	}

	q.items = append(q.items, item)
	return item, true
}

// Items returns a snapshot of the staged scans in insertion order
func (q *BatchQueue) Items() []BatchItem {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]BatchItem, len(q.items))
	copy(out, q.items)
	return out
}

// Remove discards one staged scan (operator corrects a mis-scan before commit)
func (q *BatchQueue) Remove(index int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index < 0 || index >= len(q.items) {
		return fmt.Errorf("batch index %d out of range", index)
	}
	q.items = append(q.items[:index], q.items[index+1:]...)
	return nil
}

// Pending counts valid, not yet committed items. Used to decide whether
// leaving batch mode needs a commit-or-discard confirmation.
func (q *BatchQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, item := range q.items {
		if item.Valid && !item.Processed {
			n++
		}
	}
	return n
}

// Commit drains every valid unprocessed item through the checker in insertion
// order. Per-item failures do not abort the commit; unresolved items stay
// untouched and are reported, not retried.
func (q *BatchQueue) Commit(ctx context.Context, sessionID uint, checker Checker) BatchSummary {
	q.mu.Lock()
	defer q.mu.Unlock()

	var sum BatchSummary
	for i := range q.items {
		item := &q.items[i]
		if !item.Valid {
			sum.Unresolved++
			continue
		}
		if item.Processed {
			continue
		}
		if _, err := checker.CheckDevice(ctx, sessionID, *item.DeviceID); err != nil {
			sum.Failed++
			continue
		}
		item.Processed = true
		sum.Committed++
	}
	return sum
}

// BatchRegistry hands out one staging queue per session and operator.
// Queues live in memory only; a restart empties the stage, never the session.
type BatchRegistry struct {
	mu     sync.Mutex
	queues map[batchKey]*BatchQueue
}

type batchKey struct {
	sessionID uint
	operator  string
}

// NewBatchRegistry returns an empty registry
func NewBatchRegistry() *BatchRegistry {
	return &BatchRegistry{queues: make(map[batchKey]*BatchQueue)}
}

// Get returns the queue for the session/operator pair, creating it on first use
func (r *BatchRegistry) Get(sessionID uint, operator string) *BatchQueue {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := batchKey{sessionID, operator}
	q, ok := r.queues[k]
	if !ok {
		q = NewBatchQueue()
		r.queues[k] = q
	}
	return q
}

// Drop discards the queue for the session/operator pair
func (r *BatchRegistry) Drop(sessionID uint, operator string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.queues, batchKey{sessionID, operator})
}
