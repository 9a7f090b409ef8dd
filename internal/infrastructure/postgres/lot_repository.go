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

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implements LotRepository over PostgreSQL (usable with pool or tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository builds the adapter. Pass a pool or a tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, code, product_id, initial_quantity, remaining_quantity, production_date, location_id, created_at, updated_at`

// Create persists a new lot. ErrDuplicate on a taken code.
func (r *LotRepo) Create(lot *entity.Lot) error {
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.Code, lot.ProductID, lot.InitialQuantity, lot.RemainingQuantity,
		lot.ProductionDate, lot.LocationID, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: lot code %s", domain.ErrDuplicate, lot.Code)
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (r *LotRepo) scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.Code, &l.ProductID, &l.InitialQuantity, &l.RemainingQuantity,
		&l.ProductionDate, &l.LocationID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan lot: %w", err)
	}
	return &l, nil
}

// GetByID returns a lot by ID, nil when missing.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	return r.scanLot(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode returns a lot by its unique code, nil when missing.
func (r *LotRepo) GetByCode(code string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE code = $1`
	return r.scanLot(r.q.QueryRow(context.Background(), query, code))
}

// GetForUpdate returns the lot with its row locked (SELECT FOR UPDATE).
// Only meaningful when the Querier is a transaction.
func (r *LotRepo) GetForUpdate(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1 FOR UPDATE`
	return r.scanLot(r.q.QueryRow(context.Background(), query, id))
}

// Update writes the lot's mutable fields.
func (r *LotRepo) Update(lot *entity.Lot) error {
	query := `
		UPDATE lots
		SET initial_quantity = $2, remaining_quantity = $3, location_id = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.InitialQuantity, lot.RemainingQuantity, lot.LocationID, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: lot %s", domain.ErrNotFound, lot.ID)
	}
	return nil
}

// List returns lots filtered by product and/or location, newest first.
func (r *LotRepo) List(filter repository.LotFilter, limit, offset int) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ProductID != nil {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, *filter.ProductID)
		pos++
	}
	if filter.LocationID != nil {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, *filter.LocationID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY production_date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(&l.ID, &l.Code, &l.ProductID, &l.InitialQuantity, &l.RemainingQuantity,
			&l.ProductionDate, &l.LocationID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
