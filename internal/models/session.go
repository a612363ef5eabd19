package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionStatus defines the lifecycle state of an inventory session
type SessionStatus string

const (
	SessionStatusPlanned   SessionStatus = "planned"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// sessionLabels maps statuses to the German display labels used by the console UI
var sessionLabels = map[SessionStatus]string{
	SessionStatusPlanned:   "Geplant",
	SessionStatusActive:    "Aktiv",
	SessionStatusCompleted: "Abgeschlossen",
	SessionStatusCancelled: "Abgebrochen",
}

// Label returns the human-readable (German) label for the status
func (s SessionStatus) Label() string {
	if l, ok := sessionLabels[s]; ok {
		return l
	}
	return string(s)
}

// Terminal reports whether the status allows no further transitions
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

// InventorySession represents one bounded verification exercise over a
// fixed roster of devices. Progress is derived from the roster and cached
// on the session record for list views.
type InventorySession struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Location       string         `json:"location"`
	Status         SessionStatus  `gorm:"default:'planned';index" json:"status"`
	TotalDevices   int            `gorm:"default:0" json:"totalDevices"`
	CheckedDevices int            `gorm:"default:0" json:"checkedDevices"`
	Progress       int            `gorm:"default:0" json:"progress"`
	ForceCompleted bool           `gorm:"default:false" json:"forceCompleted"`
	LockOverride   *bool          `json:"lockOverride,omitempty"`
	CreatedBy      *string        `gorm:"type:uuid" json:"createdBy,omitempty"`
	StartedAt      *time.Time     `json:"startedAt,omitempty"`
	CompletedAt    *time.Time     `json:"completedAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Devices []SessionDevice `gorm:"foreignKey:SessionID" json:"devices,omitempty"`
}

// TableName specifies the table name for InventorySession
func (InventorySession) TableName() string {
	return "inventory_sessions"
}

// SessionDevice is a roster entry: a snapshot of an asset taken at session
// creation time. Checked only ever moves false -> true within a session.
type SessionDevice struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	SessionID       uint       `gorm:"not null;index" json:"sessionId"`
	AssetID         uint       `gorm:"not null;index" json:"assetId"`
	Name            string     `json:"name"`
	SerialNumber    string     `json:"serialNumber"`
	InventoryNumber string     `json:"inventoryNumber"`
	Location        string     `json:"location"`
	LastSeen        *time.Time `json:"lastSeen,omitempty"`
	Checked         bool       `gorm:"default:false" json:"checked"`
	CheckedAt       *time.Time `json:"checkedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// TableName specifies the table name for SessionDevice
func (SessionDevice) TableName() string {
	return "session_devices"
}

// OfflineScanItem is one durable offline-queue entry, keyed by session.
// Rows survive restarts; Processed persists so a re-run of the sync never
// submits the same scan twice.
type OfflineScanItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SessionID     uint      `gorm:"not null;index" json:"sessionId"`
	Code          string    `gorm:"not null" json:"code"`
	ScannedAt     time.Time `json:"scannedAt"`
	DeviceID      *uint     `json:"deviceId,omitempty"`
	DeviceName    string    `json:"deviceName,omitempty"`
	Valid         bool      `gorm:"default:false" json:"valid"`
	Processed     bool      `gorm:"default:false;index" json:"processed"`
	SchemaVersion int       `gorm:"default:1" json:"schemaVersion"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName specifies the table name for OfflineScanItem
func (OfflineScanItem) TableName() string {
	return "offline_scan_items"
}
