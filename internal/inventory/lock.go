package inventory

import "github.com/mittwerk/assetgo/internal/models"

// SessionLocked decides whether structural edits to a session are disallowed
// for the given actor role. The base value is derived from the status (active
// sessions are locked); an admin-set manual override, when present, replaces
// the derived value. Admins are always exempt. Check-ins are never gated by
// this policy, only structural edits.
func SessionLocked(s *models.InventorySession, role string) bool {
	locked := s.Status == models.SessionStatusActive
	if s.LockOverride != nil {
		locked = *s.LockOverride
	}
	return locked && role != models.RoleAdmin
}

// AssetEditsLocked decides whether structural edits to the asset registry are
// disallowed. Business rule: while any inventory session is active, only
// admins may change or delete assets.
func AssetEditsLocked(anyActive bool, role string) bool {
	return anyActive && role != models.RoleAdmin
}
