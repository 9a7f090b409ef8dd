package catalog

import (
	"context"

	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// TxRunner executes a function inside one database transaction with the
// catalog repositories bound to it. Used so a reference price update and
// its history entry commit together.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		priceRepo repository.PriceHistoryRepository,
	) error) error
}
