package repository

import "github.com/mokpokpo/supply-api/internal/domain/entity"

// LotFilter narrows lot listings. Nil fields are ignored.
type LotFilter struct {
	ProductID  *string
	LocationID *string
}

// LotRepository defines the persistence port for Lot.
//
// Update is the only way quantities and location change, and callers must
// hold the row lock taken by GetForUpdate and pair the write with a
// StockMovement row in the same transaction.
type LotRepository interface {
	Create(lot *entity.Lot) error
	GetByID(id string) (*entity.Lot, error)
	GetByCode(code string) (*entity.Lot, error)
	// GetForUpdate loads the lot and locks its row (SELECT FOR UPDATE) so
	// concurrent debits serialize. Only meaningful inside a transaction.
	GetForUpdate(id string) (*entity.Lot, error)
	Update(lot *entity.Lot) error
	List(filter LotFilter, limit, offset int) ([]*entity.Lot, error)
}
