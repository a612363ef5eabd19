package inventory

import (
	"testing"

	"github.com/mittwerk/assetgo/internal/models"
)

func TestSessionLocked(t *testing.T) {
	yes, no := true, false

	cases := []struct {
		name     string
		status   models.SessionStatus
		override *bool
		role     string
		want     bool
	}{
		{"active locks users", models.SessionStatusActive, nil, models.RoleUser, true},
		{"active never locks admins", models.SessionStatusActive, nil, models.RoleAdmin, false},
		{"planned is open", models.SessionStatusPlanned, nil, models.RoleUser, false},
		{"completed is open", models.SessionStatusCompleted, nil, models.RoleUser, false},
		{"override forces lock on planned", models.SessionStatusPlanned, &yes, models.RoleUser, true},
		{"override releases an active session", models.SessionStatusActive, &no, models.RoleUser, false},
		{"override still exempts admins", models.SessionStatusPlanned, &yes, models.RoleAdmin, false},
	}

	for _, tc := range cases {
		s := &models.InventorySession{Status: tc.status, LockOverride: tc.override}
		if got := SessionLocked(s, tc.role); got != tc.want {
			t.Errorf("%s: locked=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAssetEditsLocked(t *testing.T) {
	if !AssetEditsLocked(true, models.RoleUser) {
		t.Error("active session must lock asset edits for users")
	}
	if AssetEditsLocked(true, models.RoleAdmin) {
		t.Error("admins are exempt from the asset edit lock")
	}
	if AssetEditsLocked(false, models.RoleUser) {
		t.Error("no active session, no lock")
	}
}
