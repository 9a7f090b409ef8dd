package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implements ProductRepository over PostgreSQL (usable with
// pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the adapter. Pass a pool or a tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, kind, unit, reference_price, created_at, updated_at`

// Create persists a product.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Kind, product.Unit,
		product.ReferencePrice, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product %s", domain.ErrDuplicate, product.Name)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID returns a product by ID, nil when missing.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Name, &p.Kind, &p.Unit, &p.ReferencePrice, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List returns products with pagination.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.Unit, &p.ReferencePrice,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// UpdateReferencePrice sets the current reference price.
func (r *ProductRepo) UpdateReferencePrice(productID string, price decimal.Decimal) error {
	query := `UPDATE products SET reference_price = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, productID, price)
	if err != nil {
		return fmt.Errorf("update reference price: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	return nil
}

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

// PriceHistoryRepo implements the append-only price log over PostgreSQL.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository builds the adapter. Pass a pool or a tx (Querier).
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

// Append inserts a price entry. ErrDuplicate when an entry already exists
// for the (product, date) pair.
func (r *PriceHistoryRepo) Append(entry *entity.PriceHistory) error {
	query := `
		INSERT INTO price_history (id, product_id, price, date)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.Price, entry.Date,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: price for product %s on %s",
				domain.ErrDuplicate, entry.ProductID, entry.Date.Format("2006-01-02"))
		}
		return fmt.Errorf("insert price history: %w", err)
	}
	return nil
}

// ListByProduct returns a product's price entries, newest first.
func (r *PriceHistoryRepo) ListByProduct(productID string, limit, offset int) ([]*entity.PriceHistory, error) {
	query := `
		SELECT id, product_id, price, date
		FROM price_history WHERE product_id = $1
		ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceHistory
	for rows.Next() {
		var e entity.PriceHistory
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Price, &e.Date); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
