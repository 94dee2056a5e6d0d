// internal/service/inventory/infrastructure/mapper.go
package infrastructure

import "autohub/internal/service/inventory/domain"

func toDomainItem(m *InventoryModel) *domain.Item {
	if m == nil {
		return nil
	}
	return &domain.Item{
		ID:             m.ID,
		ItemID:         m.ItemID,
		AvailableUnits: m.AvailableUnits,
		ReservedUnits:  m.ReservedUnits,
		Location:       m.Location,
		Version:        m.Version,
		LastUpdated:    m.LastUpdated,
	}
}

func fromDomainItem(item *domain.Item) *InventoryModel {
	if item == nil {
		return nil
	}
	return &InventoryModel{
		ID:             item.ID,
		ItemID:         item.ItemID,
		AvailableUnits: item.AvailableUnits,
		ReservedUnits:  item.ReservedUnits,
		Location:       item.Location,
		Version:        item.Version,
		LastUpdated:    item.LastUpdated,
	}
}
