package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

// DeliveryRepo implements DeliveryRepository over PostgreSQL (usable with
// pool or tx). Handles both headers and lines.
type DeliveryRepo struct {
	q Querier
}

// NewDeliveryRepository builds the adapter. Pass a pool or a tx (Querier).
func NewDeliveryRepository(q Querier) *DeliveryRepo {
	return &DeliveryRepo{q: q}
}

const deliveryColumns = `id, number, wholesaler_id, driver_id, status, requested_date, created_at`

// Create persists a delivery header.
func (r *DeliveryRepo) Create(delivery *entity.Delivery) error {
	query := `
		INSERT INTO deliveries (` + deliveryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.Number, delivery.WholesalerID, delivery.DriverID,
		delivery.Status, delivery.RequestedDate, delivery.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetByID returns a delivery by ID, nil when missing.
func (r *DeliveryRepo) GetByID(id string) (*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`
	var d entity.Delivery
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.Number, &d.WholesalerID, &d.DriverID, &d.Status, &d.RequestedDate, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return &d, nil
}

// Update writes the delivery's mutable fields (driver, status).
func (r *DeliveryRepo) Update(delivery *entity.Delivery) error {
	query := `UPDATE deliveries SET driver_id = $2, status = $3 WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		delivery.ID, delivery.DriverID, delivery.Status,
	)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: delivery %s", domain.ErrNotFound, delivery.ID)
	}
	return nil
}

// List returns deliveries filtered by status, requester and/or driver,
// newest first.
func (r *DeliveryRepo) List(filter repository.DeliveryFilter, limit, offset int) ([]*entity.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, *filter.Status)
		pos++
	}
	if filter.WholesalerID != nil {
		query += fmt.Sprintf(" AND wholesaler_id = $%d", pos)
		args = append(args, *filter.WholesalerID)
		pos++
	}
	if filter.DriverID != nil {
		query += fmt.Sprintf(" AND driver_id = $%d", pos)
		args = append(args, *filter.DriverID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()
	var list []*entity.Delivery
	for rows.Next() {
		var d entity.Delivery
		if err := rows.Scan(&d.ID, &d.Number, &d.WholesalerID, &d.DriverID,
			&d.Status, &d.RequestedDate, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

const lineColumns = `id, delivery_id, product_id, lot_id, quantity`

// CreateLine persists a delivery line.
func (r *DeliveryRepo) CreateLine(line *entity.DeliveryLine) error {
	query := `
		INSERT INTO delivery_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.DeliveryID, line.ProductID, line.LotID, line.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert delivery line: %w", err)
	}
	return nil
}

// GetLineByID returns a line by ID, nil when missing.
func (r *DeliveryRepo) GetLineByID(id string) (*entity.DeliveryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM delivery_lines WHERE id = $1`
	var l entity.DeliveryLine
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.DeliveryID, &l.ProductID, &l.LotID, &l.Quantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery line: %w", err)
	}
	return &l, nil
}

// UpdateLine writes the line's mutable fields (lot binding, quantity).
func (r *DeliveryRepo) UpdateLine(line *entity.DeliveryLine) error {
	query := `UPDATE delivery_lines SET lot_id = $2, quantity = $3 WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, line.ID, line.LotID, line.Quantity)
	if err != nil {
		return fmt.Errorf("update delivery line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: delivery line %s", domain.ErrNotFound, line.ID)
	}
	return nil
}

// ListLines returns every line of a delivery.
func (r *DeliveryRepo) ListLines(deliveryID string) ([]*entity.DeliveryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM delivery_lines WHERE delivery_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("list delivery lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.DeliveryLine
	for rows.Next() {
		var l entity.DeliveryLine
		if err := rows.Scan(&l.ID, &l.DeliveryID, &l.ProductID, &l.LotID, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan delivery line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
