package postgres

import (
	"context"
	"fmt"

	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

var _ repository.DemandForecastRepository = (*DemandForecastRepo)(nil)

// DemandForecastRepo stores the forecast advisor output over PostgreSQL.
type DemandForecastRepo struct {
	q Querier
}

// NewDemandForecastRepository builds the adapter.
func NewDemandForecastRepository(q Querier) *DemandForecastRepo {
	return &DemandForecastRepo{q: q}
}

// Upsert writes a forecast row, overwriting a previous estimate for the
// same (product, period).
func (r *DemandForecastRepo) Upsert(forecast *entity.DemandForecast) error {
	query := `
		INSERT INTO demand_forecasts (id, product_id, period, quantity, computed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, period)
		DO UPDATE SET quantity = EXCLUDED.quantity, computed_at = EXCLUDED.computed_at`
	_, err := r.q.Exec(context.Background(), query,
		forecast.ID, forecast.ProductID, forecast.Period, forecast.Quantity, forecast.ComputedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert forecast: %w", err)
	}
	return nil
}

// List returns forecasts, optionally filtered by product, ordered by period.
func (r *DemandForecastRepo) List(productID *string, limit, offset int) ([]*entity.DemandForecast, error) {
	query := `
		SELECT id, product_id, period, quantity, computed_at
		FROM demand_forecasts WHERE 1=1`
	args := []any{}
	pos := 1
	if productID != nil {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, *productID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY product_id, period LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	defer rows.Close()
	var list []*entity.DemandForecast
	for rows.Next() {
		var f entity.DemandForecast
		if err := rows.Scan(&f.ID, &f.ProductID, &f.Period, &f.Quantity, &f.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
