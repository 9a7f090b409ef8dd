package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implements StockMovementRepository over PostgreSQL
// (usable with pool or tx). Append-only: no UPDATE or DELETE statements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository builds the adapter. Pass a pool or a tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, lot_id, type, quantity, source_id, destination_id, user_id, date`

// Create appends a movement row.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.LotID, movement.Type, movement.Quantity,
		movement.SourceID, movement.DestinationID, movement.UserID, movement.Date,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID returns a movement by ID, nil when missing.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.LotID, &m.Type, &m.Quantity, &m.SourceID, &m.DestinationID, &m.UserID, &m.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ListByLot lists a lot's movements within an optional date range, newest first.
func (r *StockMovementRepo) ListByLot(lotID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE lot_id = $1`
	args := []any{lotID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.queryMovements(query, args)
}

// List lists movements within an optional date range, newest first.
func (r *StockMovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	args := []any{}
	pos := 1
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.queryMovements(query, args)
}

func (r *StockMovementRepo) queryMovements(query string, args []any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.LotID, &m.Type, &m.Quantity,
			&m.SourceID, &m.DestinationID, &m.UserID, &m.Date); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// DailyExitTotals aggregates EXIT quantities per product per calendar day,
// oldest first. Feeds the forecast advisor.
func (r *StockMovementRepo) DailyExitTotals() ([]repository.DailyExit, error) {
	query := `
		SELECT l.product_id, date_trunc('day', m.date) AS day, SUM(m.quantity)
		FROM stock_movements m
		JOIN lots l ON l.id = m.lot_id
		WHERE m.type = 'EXIT'
		GROUP BY l.product_id, day
		ORDER BY l.product_id, day`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("daily exit totals: %w", err)
	}
	defer rows.Close()
	var list []repository.DailyExit
	for rows.Next() {
		var d repository.DailyExit
		if err := rows.Scan(&d.ProductID, &d.Day, &d.Quantity); err != nil {
			return nil, fmt.Errorf("scan daily exit: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
