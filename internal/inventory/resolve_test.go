package inventory

import (
	"testing"

	"github.com/mittwerk/assetgo/internal/models"
)

func testRoster() []models.SessionDevice {
	return []models.SessionDevice{
		{ID: 1, SessionID: 7, Name: "ThinkPad T14", SerialNumber: "SN1", InventoryNumber: "INV1"},
		{ID: 2, SessionID: 7, Name: "Dell U2720Q", SerialNumber: "SN2", InventoryNumber: "INV2"},
		{ID: 3, SessionID: 7, Name: "Brother HL-L2350", SerialNumber: "SN3", InventoryNumber: "INV3"},
	}
}

func TestResolveCode(t *testing.T) {
	roster := testRoster()

	cases := []struct {
		code   string
		wantID uint
		found  bool
	}{
		{"SN1", 1, true},
		{"INV1", 1, true},
		{"SN2", 2, true},
		{"INV3", 3, true},
		{"SN4", 0, false},
		{"", 0, false},
		{"sn1", 0, false},   // exact match is case-sensitive
		{"SN", 0, false},    // no substring matching in the scan path
		{"INV11", 0, false},
	}

	for _, tc := range cases {
		dev, ok := ResolveCode(roster, tc.code)
		if ok != tc.found {
			t.Errorf("ResolveCode(%q): found=%v, want %v", tc.code, ok, tc.found)
			continue
		}
		if ok && dev.ID != tc.wantID {
			t.Errorf("ResolveCode(%q): device %d, want %d", tc.code, dev.ID, tc.wantID)
		}
	}
}

func TestProgress(t *testing.T) {
	cases := []struct {
		checked, total, want int
	}{
		{0, 0, 0}, // empty roster never divides by zero
		{0, 10, 0},
		{1, 2, 50},
		{2, 2, 100},
		{1, 3, 33},
		{2, 3, 67},
		{5, 7, 71},
		{7, 7, 100},
	}

	for _, tc := range cases {
		if got := Progress(tc.checked, tc.total); got != tc.want {
			t.Errorf("Progress(%d, %d) = %d, want %d", tc.checked, tc.total, got, tc.want)
		}
	}
}
