package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssetStatus defines the operational state of a managed asset
type AssetStatus string

const (
	AssetStatusInUse       AssetStatus = "in_use"
	AssetStatusInStock     AssetStatus = "in_stock"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
)

// Asset represents a managed IT device (laptop, monitor, printer, ...)
// Convention: Go PascalCase -> DB snake_case (GORM auto) -> JSON camelCase
type Asset struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	SerialNumber    string         `gorm:"index" json:"serialNumber"`
	InventoryNumber string         `gorm:"uniqueIndex" json:"inventoryNumber"`
	Location        string         `json:"location"`
	Status          AssetStatus    `gorm:"default:'in_stock'" json:"status"`
	AssignedTo      *string        `gorm:"type:uuid" json:"assignedTo,omitempty"`
	LastSeen        *time.Time     `json:"lastSeen,omitempty"`
	Metadata        datatypes.JSON `json:"metadata"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Asset
func (Asset) TableName() string {
	return "assets"
}
