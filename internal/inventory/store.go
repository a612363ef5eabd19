package inventory

import (
	"github.com/mittwerk/assetgo/internal/models"
	"gorm.io/gorm"
)

// GormQueueStore persists the offline queue in the offline_scan_items table
type GormQueueStore struct {
	db *gorm.DB
}

// NewGormQueueStore builds a store on the given database handle
func NewGormQueueStore(db *gorm.DB) *GormQueueStore {
	return &GormQueueStore{db: db}
}

// Load returns the queue for a session in scan order
func (s *GormQueueStore) Load(sessionID uint) ([]models.OfflineScanItem, error) {
	var items []models.OfflineScanItem
	err := s.db.Where("session_id = ?", sessionID).Order("scanned_at, id").Find(&items).Error
	return items, err
}

// Append inserts a new queue entry
func (s *GormQueueStore) Append(item *models.OfflineScanItem) error {
	return s.db.Create(item).Error
}

// Save persists updated flags on an existing entry
func (s *GormQueueStore) Save(item *models.OfflineScanItem) error {
	return s.db.Save(item).Error
}

// Clear drops all entries for a session
func (s *GormQueueStore) Clear(sessionID uint) error {
	return s.db.Where("session_id = ?", sessionID).Delete(&models.OfflineScanItem{}).Error
}
