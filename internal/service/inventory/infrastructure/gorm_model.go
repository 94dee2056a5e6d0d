// internal/service/inventory/infrastructure/gorm_model.go
package infrastructure

import "time"

// InventoryModel maps the inventory table. item_id is unique: one ledger row
// per catalog item.
type InventoryModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	ItemID         string    `gorm:"uniqueIndex;size:64;not null"`
	AvailableUnits int       `gorm:"not null"`
	ReservedUnits  int       `gorm:"not null;default:0"`
	Location       string    `gorm:"size:128"`
	Version        int64     `gorm:"not null;default:0"`
	LastUpdated    time.Time `gorm:"not null"`
}

func (InventoryModel) TableName() string {
	return "inventory"
}
