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

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implements LocationRepository over PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository builds the adapter.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persists a location. ErrDuplicate when the code is taken within
// the warehouse.
func (r *LocationRepo) Create(location *entity.Location) error {
	query := `
		INSERT INTO locations (id, warehouse_id, code, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.WarehouseID, location.Code, location.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: location code %s", domain.ErrDuplicate, location.Code)
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID returns a location by ID, nil when missing.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `
		SELECT id, warehouse_id, code, created_at
		FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.WarehouseID, &l.Code, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// GetByWarehouseAndCode returns a location by its code within a warehouse,
// nil when missing.
func (r *LocationRepo) GetByWarehouseAndCode(warehouseID, code string) (*entity.Location, error) {
	query := `
		SELECT id, warehouse_id, code, created_at
		FROM locations WHERE warehouse_id = $1 AND code = $2`
	var l entity.Location
	err := r.q.QueryRow(context.Background(), query, warehouseID, code).Scan(
		&l.ID, &l.WarehouseID, &l.Code, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location by code: %w", err)
	}
	return &l, nil
}

// ListByWarehouse returns a warehouse's locations ordered by code.
func (r *LocationRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT id, warehouse_id, code, created_at
		FROM locations WHERE warehouse_id = $1
		ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.WarehouseID, &l.Code, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
