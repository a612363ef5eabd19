package inventory

import (
	"time"

	"github.com/mittwerk/assetgo/internal/models"
)

// MarkChecked applies the check-in transition to a roster device. Returns
// true when the device was newly checked, false when it already was. The
// flag only ever moves false -> true; that monotonicity is what keeps the
// online, batch and offline paths safe without locking.
func MarkChecked(d *models.SessionDevice, now time.Time) bool {
	if d.Checked {
		return false
	}
	d.Checked = true
	d.CheckedAt = &now
	return true
}
