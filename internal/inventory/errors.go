package inventory

import (
	"errors"
	"fmt"

	"github.com/mittwerk/assetgo/internal/models"
)

var (
	// ErrSessionNotFound indicates the session id resolves to no session
	ErrSessionNotFound = errors.New("session not found")

	// ErrDeviceNotFound indicates the device id is not part of the session roster
	ErrDeviceNotFound = errors.New("device not in session roster")

	// ErrCodeNotFound indicates a scanned code matched no roster device
	ErrCodeNotFound = errors.New("code matches no device")

	// ErrLocked indicates a structural edit was refused by the lock policy
	ErrLocked = errors.New("session is locked")

	// ErrAdminRequired indicates the operation needs the admin role
	ErrAdminRequired = errors.New("admin role required")

	// ErrInvalidTransition indicates a session status transition that the
	// lifecycle does not allow
	ErrInvalidTransition = errors.New("invalid session state transition")
)

// MissingDevicesError is returned by Complete when unchecked devices remain.
// The operator decides between cancelling and force-completing.
type MissingDevicesError struct {
	Devices []models.SessionDevice
}

func (e *MissingDevicesError) Error() string {
	return fmt.Sprintf("%d devices not checked", len(e.Devices))
}
