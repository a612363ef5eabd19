package inventory

import (
	"context"
	"time"

	"github.com/mittwerk/assetgo/internal/models"
)

// QueueStore is the durable persistence behind the offline queue, keyed by
// session id. The production store writes to the database; swapping it for a
// file or another embedded store must not touch the queue logic.
type QueueStore interface {
	Load(sessionID uint) ([]models.OfflineScanItem, error)
	Append(item *models.OfflineScanItem) error
	Save(item *models.OfflineScanItem) error
	Clear(sessionID uint) error
}

// SyncSummary reports the outcome of one sync run
type SyncSummary struct {
	Synced    int `json:"synced"`
	Attempted int `json:"attempted"`
	Invalid   int `json:"invalid"`
	Failed    int `json:"failed"`
}

// OfflineQueue stages scans captured without backend connectivity. Every
// recorded scan is persisted immediately so a crash or restart loses nothing;
// sync marks items processed one by one, so a re-run after a partial failure
// never submits the same scan twice.
type OfflineQueue struct {
	store QueueStore
}

// NewOfflineQueue builds a queue on the given store
func NewOfflineQueue(store QueueStore) *OfflineQueue {
	return &OfflineQueue{store: store}
}

// Record resolves the code against the roster and persists the scan for the
// session. Invalid codes are recorded too; they surface as unresolved at sync
// time instead of being silently dropped.
func (q *OfflineQueue) Record(sessionID uint, roster []models.SessionDevice, code string) (models.OfflineScanItem, error) {
	item := models.OfflineScanItem{
		SessionID:     sessionID,
		Code:          code,
		ScannedAt:     time.Now(),
		SchemaVersion: 1,
	}
	if dev, ok := ResolveCode(roster, code); ok {
		id := dev.ID
		item.DeviceID = &id
		item.DeviceName = dev.Name
		item.Valid = true
	}
	if err := q.store.Append(&item); err != nil {
		return models.OfflineScanItem{}, err
	}
	return item, nil
}

// Items returns the full persisted queue for the session
func (q *OfflineQueue) Items(sessionID uint) ([]models.OfflineScanItem, error) {
	return q.store.Load(sessionID)
}

// Pending counts valid unprocessed items. Used to decide whether leaving
// offline mode should prompt for a sync.
func (q *OfflineQueue) Pending(sessionID uint) (int, error) {
	items, err := q.store.Load(sessionID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, item := range items {
		if item.Valid && !item.Processed {
			n++
		}
	}
	return n, nil
}

// Sync drains unprocessed items through the checker. Each success is
// persisted before the next item is attempted, so a failure mid-run keeps the
// progress already made and the run is safe to repeat.
func (q *OfflineQueue) Sync(ctx context.Context, sessionID uint, checker Checker) (SyncSummary, error) {
	items, err := q.store.Load(sessionID)
	if err != nil {
		return SyncSummary{}, err
	}

	var sum SyncSummary
	for i := range items {
		item := &items[i]
		if item.Processed {
			continue
		}
		if !item.Valid || item.DeviceID == nil {
			sum.Invalid++
			continue
		}
		sum.Attempted++
		if _, err := checker.CheckDevice(ctx, sessionID, *item.DeviceID); err != nil {
			sum.Failed++
			continue
		}
		item.Processed = true
		if err := q.store.Save(item); err != nil {
			return sum, err
		}
		sum.Synced++
	}
	return sum, nil
}

// Clear abandons all staged offline work for the session, in memory and on
// disk. Explicit operator action only.
func (q *OfflineQueue) Clear(sessionID uint) error {
	return q.store.Clear(sessionID)
}
