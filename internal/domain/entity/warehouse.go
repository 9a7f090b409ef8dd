package entity

import "time"

// Warehouse is a physical storage site.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location is a storage slot inside a warehouse, identified by a
// human-readable code (e.g. E1-R2-N3), unique within its warehouse.
type Location struct {
	ID          string
	WarehouseID string
	Code        string
	CreatedAt   time.Time
}
