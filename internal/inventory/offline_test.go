package inventory

import (
	"context"
	"testing"

	"github.com/mittwerk/assetgo/internal/models"
)

// memQueueStore keeps the queue in memory; stands in for the database store
type memQueueStore struct {
	items  map[uint][]models.OfflineScanItem
	nextID uint
}

func newMemQueueStore() *memQueueStore {
	return &memQueueStore{items: make(map[uint][]models.OfflineScanItem)}
}

func (s *memQueueStore) Load(sessionID uint) ([]models.OfflineScanItem, error) {
	out := make([]models.OfflineScanItem, len(s.items[sessionID]))
	copy(out, s.items[sessionID])
	return out, nil
}

func (s *memQueueStore) Append(item *models.OfflineScanItem) error {
	s.nextID++
	item.ID = s.nextID
	s.items[item.SessionID] = append(s.items[item.SessionID], *item)
	return nil
}

func (s *memQueueStore) Save(item *models.OfflineScanItem) error {
	list := s.items[item.SessionID]
	for i := range list {
		if list[i].ID == item.ID {
			list[i] = *item
			return nil
		}
	}
	return ErrDeviceNotFound
}

func (s *memQueueStore) Clear(sessionID uint) error {
	delete(s.items, sessionID)
	return nil
}

func TestOfflineRecordPersistsImmediately(t *testing.T) {
	store := newMemQueueStore()
	q := NewOfflineQueue(store)
	roster := testRoster()

	item, err := q.Record(7, roster, "SN1")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if !item.Valid || item.DeviceID == nil || *item.DeviceID != 1 {
		t.Errorf("recorded item %+v, want resolved to device 1", item)
	}

	// Invalid codes are kept too, flagged instead of dropped
	item, err = q.Record(7, roster, "UNKNOWN")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if item.Valid {
		t.Error("unknown code recorded as valid")
	}

	persisted, _ := store.Load(7)
	if len(persisted) != 2 {
		t.Fatalf("store holds %d items, want 2", len(persisted))
	}
	if persisted[0].Processed || persisted[1].Processed {
		t.Error("fresh items must be unprocessed")
	}
}

func TestOfflineSyncIsIdempotent(t *testing.T) {
	store := newMemQueueStore()
	q := NewOfflineQueue(store)
	roster := testRoster()

	q.Record(7, roster, "SN1")

	// Pre-existing processed item must never be resubmitted
	done := models.OfflineScanItem{SessionID: 7, Code: "SN2", Valid: true, Processed: true}
	id := uint(2)
	done.DeviceID = &id
	store.Append(&done)

	checker := newStubChecker()
	sum, err := q.Sync(context.Background(), 7, checker)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if sum.Synced != 1 || sum.Attempted != 1 {
		t.Errorf("summary %+v, want 1 of 1 unprocessed items synced", sum)
	}
	if len(checker.calls) != 1 || checker.calls[0] != 1 {
		t.Errorf("checker calls %v, want only device 1", checker.calls)
	}

	// Re-run: nothing unprocessed remains
	sum, err = q.Sync(context.Background(), 7, checker)
	if err != nil {
		t.Fatalf("re-sync failed: %v", err)
	}
	if sum.Synced != 0 || sum.Attempted != 0 {
		t.Errorf("re-sync summary %+v, want 0 of 0", sum)
	}
	if len(checker.calls) != 1 {
		t.Error("re-sync resubmitted an already-processed item")
	}
}

func TestOfflineSyncPartialFailure(t *testing.T) {
	store := newMemQueueStore()
	q := NewOfflineQueue(store)
	roster := testRoster()

	q.Record(7, roster, "SN1")
	q.Record(7, roster, "SN2")
	q.Record(7, roster, "SN3")

	checker := newStubChecker()
	checker.fail[2] = true // network drops on the second item

	sum, err := q.Sync(context.Background(), 7, checker)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if sum.Synced != 2 || sum.Failed != 1 || sum.Attempted != 3 {
		t.Errorf("summary %+v, want 2 synced, 1 failed of 3", sum)
	}

	// Successes were persisted item by item
	pending, _ := q.Pending(7)
	if pending != 1 {
		t.Errorf("pending = %d, want 1", pending)
	}

	// Retry picks up only the failed item
	checker.fail = map[uint]bool{}
	sum, _ = q.Sync(context.Background(), 7, checker)
	if sum.Synced != 1 || sum.Attempted != 1 {
		t.Errorf("retry summary %+v, want exactly the failed item", sum)
	}
}

func TestOfflineSyncSkipsInvalidItems(t *testing.T) {
	store := newMemQueueStore()
	q := NewOfflineQueue(store)

	q.Record(7, testRoster(), "GHOST")

	checker := newStubChecker()
	sum, err := q.Sync(context.Background(), 7, checker)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if sum.Invalid != 1 || sum.Attempted != 0 || len(checker.calls) != 0 {
		t.Errorf("summary %+v calls %v, want invalid item skipped", sum, checker.calls)
	}
}

func TestOfflineClear(t *testing.T) {
	store := newMemQueueStore()
	q := NewOfflineQueue(store)
	roster := testRoster()

	q.Record(7, roster, "SN1")
	q.Record(9, roster, "SN2")

	if err := q.Clear(7); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	items, _ := q.Items(7)
	if len(items) != 0 {
		t.Errorf("session 7 still holds %d items", len(items))
	}
	// Other sessions are untouched
	items, _ = q.Items(9)
	if len(items) != 1 {
		t.Errorf("session 9 holds %d items, want 1", len(items))
	}
}
