package repository

import (
	"github.com/shopspring/decimal"

	"github.com/mokpokpo/supply-api/internal/domain/entity"
)

// ProductRepository defines the persistence port for Product.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	UpdateReferencePrice(productID string, price decimal.Decimal) error
}

// PriceHistoryRepository is the append-only log of reference price changes.
// No update or delete: one entry per (product, date).
type PriceHistoryRepository interface {
	Append(entry *entity.PriceHistory) error
	ListByProduct(productID string, limit, offset int) ([]*entity.PriceHistory, error)
}
