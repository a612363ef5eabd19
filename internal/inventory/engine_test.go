package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/mittwerk/assetgo/internal/models"
)

func TestMarkCheckedIsIdempotent(t *testing.T) {
	d := models.SessionDevice{ID: 1, SessionID: 7}
	first := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	if !MarkChecked(&d, first) {
		t.Fatal("first check must report newly checked")
	}
	if !d.Checked || d.CheckedAt == nil || !d.CheckedAt.Equal(first) {
		t.Fatalf("after first check: %+v", d)
	}

	// Re-checking changes nothing, including the original timestamp
	if MarkChecked(&d, first.Add(time.Hour)) {
		t.Error("second check must be a no-op")
	}
	if !d.CheckedAt.Equal(first) {
		t.Errorf("CheckedAt moved to %v on re-check", d.CheckedAt)
	}
}

// Walks the full workflow over an in-memory roster: single check, batch
// commit of the second device, then everything checked.
func TestCheckWorkflowEndToEnd(t *testing.T) {
	roster := []models.SessionDevice{
		{ID: 1, SessionID: 7, SerialNumber: "SN1", InventoryNumber: "INV1"},
		{ID: 2, SessionID: 7, SerialNumber: "SN2", InventoryNumber: "INV2"},
	}
	checker := newStubChecker()

	// Operator checks device 1 directly
	res, err := checker.CheckDevice(context.Background(), 7, roster[0].ID)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if res.AlreadyChecked {
		t.Error("device 1 reported already checked")
	}
	if got := Progress(res.CheckedDevices, len(roster)); got != 50 {
		t.Errorf("progress after first check = %d, want 50", got)
	}

	// Operator batch-scans a code matching device 2 and commits
	q := NewBatchQueue()
	if item, added := q.AddScan(roster, "SN2"); !added || !item.Valid {
		t.Fatalf("batch scan not staged: added=%v item=%+v", added, item)
	}
	sum := q.Commit(context.Background(), 7, checker)
	if sum.Committed != 1 {
		t.Fatalf("batch summary %+v, want 1 committed", sum)
	}
	if got := Progress(len(checker.checked), len(roster)); got != 100 {
		t.Errorf("progress after commit = %d, want 100", got)
	}

	// Nothing is missing anymore, completion may proceed
	for _, d := range roster {
		if !checker.checked[d.ID] {
			t.Errorf("device %d still unchecked", d.ID)
		}
	}
}
