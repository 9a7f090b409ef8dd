package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mokpokpo/supply-api/internal/application/catalog"
	"github.com/mokpokpo/supply-api/internal/application/delivery"
	"github.com/mokpokpo/supply-api/internal/application/inventory"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// Ensure TxRunner implements the application-layer runners.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ delivery.TxRunner = (*TxRunner)(nil)
var _ catalog.TxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside a PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run starts a transaction, runs fn with movement and lot repositories
// bound to it, then commits — or rolls back if fn fails.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	lotRepo repository.LotRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx), NewLotRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunDelivery starts a transaction with the repositories the delivery
// workflow needs (fulfillment touches lots, movements and the delivery).
func (r *TxRunner) RunDelivery(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	lotRepo repository.LotRepository,
	deliveryRepo repository.DeliveryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx), NewLotRepository(tx), NewDeliveryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCatalog starts a transaction with product and price history
// repositories (reference price update + history entry).
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	priceRepo repository.PriceHistoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewPriceHistoryRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
