package inventory

import (
	"math"

	"github.com/mittwerk/assetgo/internal/models"
)

// ResolveCode matches a scanned code against the roster. A code identifies a
// device when it equals its serial number or its inventory number, exact and
// case-sensitive. The substring search on the asset list is a separate
// feature and intentionally not used here.
func ResolveCode(roster []models.SessionDevice, code string) (*models.SessionDevice, bool) {
	for i := range roster {
		d := &roster[i]
		if d.SerialNumber == code || d.InventoryNumber == code {
			return d, true
		}
	}
	return nil, false
}

// Progress computes the session completion percentage, 0 for an empty roster.
func Progress(checked, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(checked) / float64(total) * 100))
}
