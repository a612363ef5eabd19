package inventory

import (
	"context"
	"errors"
	"testing"
)

// stubChecker records check calls in order and keeps a checked set, matching
// the monotonic flag semantics of the real engine.
type stubChecker struct {
	checked map[uint]bool
	fail    map[uint]bool
	calls   []uint
}

func newStubChecker() *stubChecker {
	return &stubChecker{checked: make(map[uint]bool), fail: make(map[uint]bool)}
}

func (c *stubChecker) CheckDevice(ctx context.Context, sessionID, deviceID uint) (CheckResult, error) {
	c.calls = append(c.calls, deviceID)
	if c.fail[deviceID] {
		return CheckResult{}, errors.New("backend unreachable")
	}
	already := c.checked[deviceID]
	c.checked[deviceID] = true
	res := CheckResult{AlreadyChecked: already}
	res.CheckedDevices = len(c.checked)
	return res, nil
}

func TestBatchQueueDedup(t *testing.T) {
	roster := testRoster()
	q := NewBatchQueue()

	if _, added := q.AddScan(roster, "SN1"); !added {
		t.Fatal("first scan should be staged")
	}
	if _, added := q.AddScan(roster, "SN1"); added {
		t.Error("same code staged twice")
	}
	// INV1 resolves to the same device as SN1
	if _, added := q.AddScan(roster, "INV1"); added {
		t.Error("second code of the same device staged twice")
	}
	// Unknown codes are staged as invalid, and deduped by code too
	if item, added := q.AddScan(roster, "NOPE"); !added || item.Valid {
		t.Errorf("unknown code: added=%v valid=%v, want staged and invalid", added, item.Valid)
	}
	if _, added := q.AddScan(roster, "NOPE"); added {
		t.Error("unknown code staged twice")
	}

	if n := len(q.Items()); n != 2 {
		t.Errorf("queue holds %d items, want 2", n)
	}
}

func TestBatchQueueRemove(t *testing.T) {
	roster := testRoster()
	q := NewBatchQueue()
	q.AddScan(roster, "SN1")
	q.AddScan(roster, "SN2")

	if err := q.Remove(5); err == nil {
		t.Error("out-of-range remove should fail")
	}
	if err := q.Remove(0); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	items := q.Items()
	if len(items) != 1 || items[0].Code != "SN2" {
		t.Errorf("after remove: %+v, want only SN2", items)
	}
}

func TestBatchQueueCommit(t *testing.T) {
	roster := testRoster()
	q := NewBatchQueue()
	q.AddScan(roster, "SN1")
	q.AddScan(roster, "SN2")
	q.AddScan(roster, "NOPE") // stays unresolved

	checker := newStubChecker()
	sum := q.Commit(context.Background(), 7, checker)

	if sum.Committed != 2 || sum.Unresolved != 1 || sum.Failed != 0 {
		t.Errorf("summary %+v, want 2 committed, 1 unresolved", sum)
	}
	if len(checker.calls) != 2 || checker.calls[0] != 1 || checker.calls[1] != 2 {
		t.Errorf("commit order %v, want insertion order [1 2]", checker.calls)
	}

	// A second commit has nothing left to do; the invalid item is not retried
	sum = q.Commit(context.Background(), 7, checker)
	if sum.Committed != 0 || sum.Unresolved != 1 {
		t.Errorf("re-commit summary %+v, want nothing committed", sum)
	}
	if len(checker.calls) != 2 {
		t.Errorf("re-commit issued %d extra calls", len(checker.calls)-2)
	}
}

func TestBatchQueueCommitPartialFailure(t *testing.T) {
	roster := testRoster()
	q := NewBatchQueue()
	q.AddScan(roster, "SN1")
	q.AddScan(roster, "SN2")

	checker := newStubChecker()
	checker.fail[1] = true

	sum := q.Commit(context.Background(), 7, checker)
	if sum.Committed != 1 || sum.Failed != 1 {
		t.Errorf("summary %+v, want 1 committed, 1 failed", sum)
	}
	if q.Pending() != 1 {
		t.Errorf("pending = %d, want the failed item to stay uncommitted", q.Pending())
	}

	// Retry after the backend recovers
	checker.fail = map[uint]bool{}
	sum = q.Commit(context.Background(), 7, checker)
	if sum.Committed != 1 || sum.Failed != 0 {
		t.Errorf("retry summary %+v, want the failed item committed", sum)
	}
	if q.Pending() != 0 {
		t.Errorf("pending = %d after retry, want 0", q.Pending())
	}
}

func TestBatchRegistry(t *testing.T) {
	r := NewBatchRegistry()

	q1 := r.Get(1, "alice")
	if q2 := r.Get(1, "alice"); q2 != q1 {
		t.Error("same session/operator pair got a different queue")
	}
	if q3 := r.Get(1, "bob"); q3 == q1 {
		t.Error("different operators share a queue")
	}

	q1.AddScan(testRoster(), "SN1")
	r.Drop(1, "alice")
	if n := len(r.Get(1, "alice").Items()); n != 0 {
		t.Errorf("dropped queue still holds %d items", n)
	}
}
