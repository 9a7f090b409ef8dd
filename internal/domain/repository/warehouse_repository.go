package repository

import "github.com/mokpokpo/supply-api/internal/domain/entity"

// WarehouseRepository defines the persistence port for Warehouse.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	List(limit, offset int) ([]*entity.Warehouse, error)
}

// LocationRepository defines the persistence port for Location.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	GetByWarehouseAndCode(warehouseID, code string) (*entity.Location, error)
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Location, error)
}
