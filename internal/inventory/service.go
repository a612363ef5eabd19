package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mittwerk/assetgo/internal/models"
	"gorm.io/gorm"
)

// Service owns the session workflow: roster snapshots, check-ins, progress
// bookkeeping, lifecycle transitions and the lock policy around structural
// edits. All I/O goes through the database handle; the transition rules
// themselves live in the pure helpers of this package.
type Service struct {
	db      *gorm.DB
	Offline *OfflineQueue
}

// NewService builds the workflow service on the given database
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:      db,
		Offline: NewOfflineQueue(NewGormQueueStore(db)),
	}
}

// CreateSessionInput carries the session creation payload
type CreateSessionInput struct {
	Name     string  `json:"name"`
	Location string  `json:"location"`
	AssetIDs []uint  `json:"assetIds"`
	Actor    *string `json:"-"`
}

// CreateSession creates a planned session and snapshots the roster from the
// asset registry. An empty AssetIDs list takes every active asset. Checked
// starts false for every roster entry and never resets afterwards.
func (s *Service) CreateSession(in CreateSessionInput) (*models.InventorySession, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("session name is required")
	}

	var assets []models.Asset
	q := s.db.Where("status <> ?", models.AssetStatusRetired)
	if len(in.AssetIDs) > 0 {
		q = q.Where("id IN ?", in.AssetIDs)
	}
	if err := q.Order("id").Find(&assets).Error; err != nil {
		return nil, err
	}

	session := models.InventorySession{
		Name:         in.Name,
		Location:     in.Location,
		Status:       models.SessionStatusPlanned,
		TotalDevices: len(assets),
		CreatedBy:    in.Actor,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		for _, a := range assets {
			dev := models.SessionDevice{
				SessionID:       session.ID,
				AssetID:         a.ID,
				Name:            a.Name,
				SerialNumber:    a.SerialNumber,
				InventoryNumber: a.InventoryNumber,
				Location:        a.Location,
				LastSeen:        a.LastSeen,
			}
			if err := tx.Create(&dev).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSession loads one session
func (s *Service) GetSession(id uint) (*models.InventorySession, error) {
	var session models.InventorySession
	if err := s.db.First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListSessions returns all sessions, newest first
func (s *Service) ListSessions() ([]models.InventorySession, error) {
	var sessions []models.InventorySession
	err := s.db.Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// Roster returns the session's device roster in stable order
func (s *Service) Roster(sessionID uint) ([]models.SessionDevice, error) {
	if _, err := s.GetSession(sessionID); err != nil {
		return nil, err
	}
	var devices []models.SessionDevice
	err := s.db.Where("session_id = ?", sessionID).Order("id").Find(&devices).Error
	return devices, err
}

// StartSession moves a planned session to active
func (s *Service) StartSession(id uint) (*models.InventorySession, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusPlanned {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, models.SessionStatusActive)
	}
	now := time.Now()
	session.Status = models.SessionStatusActive
	session.StartedAt = &now
	if err := s.db.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// CancelSession aborts a planned or active session
func (s *Service) CancelSession(id uint) (*models.InventorySession, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, models.SessionStatusCancelled)
	}
	session.Status = models.SessionStatusCancelled
	if err := s.db.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session. Structural edit: refused by the lock
// policy while the session is active, unless the actor is an admin.
func (s *Service) DeleteSession(id uint, role string) error {
	session, err := s.GetSession(id)
	if err != nil {
		return err
	}
	if SessionLocked(session, role) {
		return ErrLocked
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionDevice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.OfflineScanItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.InventorySession{}, id).Error
	})
}

// SetLockOverride sets or clears the manual lock toggle. Admin only; the
// override replaces the status-derived lock value for non-admin actors.
func (s *Service) SetLockOverride(id uint, locked *bool, role string) (*models.InventorySession, error) {
	if role != models.RoleAdmin {
		return nil, ErrAdminRequired
	}
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	session.LockOverride = locked
	if err := s.db.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// CheckDevice marks one roster device as physically verified and recomputes
// the session counters. Idempotent: re-checking sets AlreadyChecked on the
// result and changes nothing, which is what lets the online, batch and
// offline paths converge on the same device without coordination.
func (s *Service) CheckDevice(ctx context.Context, sessionID, deviceID uint) (CheckResult, error) {
	var result CheckResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.InventorySession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if session.Status.Terminal() {
			return fmt.Errorf("%w: session is %s", ErrInvalidTransition, session.Status)
		}

		var device models.SessionDevice
		err := tx.Where("session_id = ? AND id = ?", sessionID, deviceID).First(&device).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeviceNotFound
		}
		if err != nil {
			return err
		}

		if MarkChecked(&device, time.Now()) {
			if err := tx.Save(&device).Error; err != nil {
				return err
			}
		} else {
			result.AlreadyChecked = true
		}

		var checked int64
		if err := tx.Model(&models.SessionDevice{}).
			Where("session_id = ? AND checked = ?", sessionID, true).
			Count(&checked).Error; err != nil {
			return err
		}

		session.CheckedDevices = int(checked)
		session.Progress = Progress(session.CheckedDevices, session.TotalDevices)
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		result.Device = device
		result.CheckedDevices = session.CheckedDevices
		result.TotalDevices = session.TotalDevices
		result.Progress = session.Progress
		return nil
	})
	if err != nil {
		return CheckResult{}, err
	}
	return result, nil
}

// CheckByCode resolves a scanned code and checks the matching device
func (s *Service) CheckByCode(ctx context.Context, sessionID uint, code string) (CheckResult, error) {
	roster, err := s.Roster(sessionID)
	if err != nil {
		return CheckResult{}, err
	}
	device, ok := ResolveCode(roster, code)
	if !ok {
		return CheckResult{}, ErrCodeNotFound
	}
	return s.CheckDevice(ctx, sessionID, device.ID)
}

// BatchCheckSummary reports the outcome of a direct batch check call
type BatchCheckSummary struct {
	NewlyChecked   int `json:"newlyChecked"`
	AlreadyChecked int `json:"alreadyChecked"`
	NotFound       int `json:"notFound"`
}

// BatchCheck checks a list of roster devices in order. Unknown ids are
// counted, not fatal; re-checks are counted separately from new checks.
func (s *Service) BatchCheck(ctx context.Context, sessionID uint, deviceIDs []uint) (BatchCheckSummary, error) {
	var sum BatchCheckSummary
	for _, id := range deviceIDs {
		res, err := s.CheckDevice(ctx, sessionID, id)
		if errors.Is(err, ErrDeviceNotFound) {
			sum.NotFound++
			continue
		}
		if err != nil {
			return sum, err
		}
		if res.AlreadyChecked {
			sum.AlreadyChecked++
		} else {
			sum.NewlyChecked++
		}
	}
	return sum, nil
}

// UpdateProgress recounts the roster and persists the cached counters
func (s *Service) UpdateProgress(sessionID uint) (*models.InventorySession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	var checked int64
	if err := s.db.Model(&models.SessionDevice{}).
		Where("session_id = ? AND checked = ?", sessionID, true).
		Count(&checked).Error; err != nil {
		return nil, err
	}

	session.CheckedDevices = int(checked)
	session.Progress = Progress(session.CheckedDevices, session.TotalDevices)
	if err := s.db.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// MissingDevices lists roster entries not yet checked
func (s *Service) MissingDevices(sessionID uint) ([]models.SessionDevice, error) {
	if _, err := s.GetSession(sessionID); err != nil {
		return nil, err
	}
	var missing []models.SessionDevice
	err := s.db.Where("session_id = ? AND checked = ?", sessionID, false).Order("id").Find(&missing).Error
	return missing, err
}

// Complete finalizes an active session. Refused with MissingDevicesError
// while unchecked devices remain; the operator then cancels or forces.
func (s *Service) Complete(sessionID uint) (*models.InventorySession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusActive {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, models.SessionStatusCompleted)
	}

	missing, err := s.MissingDevices(sessionID)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &MissingDevicesError{Devices: missing}
	}

	return s.finalize(session, false)
}

// ForceComplete finalizes an active session regardless of missing devices
// and records the override on the session.
func (s *Service) ForceComplete(sessionID uint) (*models.InventorySession, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusActive {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, models.SessionStatusCompleted)
	}
	return s.finalize(session, true)
}

func (s *Service) finalize(session *models.InventorySession, forced bool) (*models.InventorySession, error) {
	now := time.Now()
	session.Status = models.SessionStatusCompleted
	session.ForceCompleted = forced
	session.CompletedAt = &now
	if err := s.db.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// AnyActiveSession reports whether any session is currently active. Feeds
// the registry-wide asset edit lock.
func (s *Service) AnyActiveSession() (bool, error) {
	var n int64
	err := s.db.Model(&models.InventorySession{}).
		Where("status = ?", models.SessionStatusActive).
		Count(&n).Error
	return n > 0, err
}
