package forecast

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// DefaultHorizonDays is the forward window forecasts are produced for.
const DefaultHorizonDays = 7

// UseCase is the demand forecast advisor. It reads EXIT movement history,
// estimates daily consumption per product as the historical daily mean and
// writes advisory DemandForecast rows. It never mutates lot, movement or
// delivery state; the averaging can be swapped for a richer model without
// changing the output shape.
type UseCase struct {
	movRepo      repository.StockMovementRepository
	forecastRepo repository.DemandForecastRepository
}

// NewUseCase builds the use case.
func NewUseCase(movRepo repository.StockMovementRepository, forecastRepo repository.DemandForecastRepository) *UseCase {
	return &UseCase{movRepo: movRepo, forecastRepo: forecastRepo}
}

// ComputeForecasts estimates demand per product for the next horizonDays
// days (starting tomorrow) and persists the results, one row per
// (product, day), upserted so recomputation overwrites stale estimates.
//
// The daily mean resamples the EXIT history to calendar days: days without
// exits between the first and last recorded exit count as zero.
func (uc *UseCase) ComputeForecasts(ctx context.Context, horizonDays int) ([]*entity.DemandForecast, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	totals, err := uc.movRepo.DailyExitTotals()
	if err != nil {
		return nil, err
	}

	type span struct {
		first, last time.Time
		total       decimal.Decimal
	}
	byProduct := make(map[string]*span)
	var order []string
	for _, t := range totals {
		day := t.Day.Truncate(24 * time.Hour)
		s, ok := byProduct[t.ProductID]
		if !ok {
			byProduct[t.ProductID] = &span{first: day, last: day, total: t.Quantity}
			order = append(order, t.ProductID)
			continue
		}
		if day.Before(s.first) {
			s.first = day
		}
		if day.After(s.last) {
			s.last = day
		}
		s.total = s.total.Add(t.Quantity)
	}

	now := time.Now()
	start := now.Truncate(24 * time.Hour).AddDate(0, 0, 1)
	var out []*entity.DemandForecast
	for _, productID := range order {
		s := byProduct[productID]
		days := int(s.last.Sub(s.first).Hours()/24) + 1
		meanDaily := s.total.DivRound(decimal.NewFromInt(int64(days)), 2)

		for i := 0; i < horizonDays; i++ {
			f := &entity.DemandForecast{
				ID:         uuid.New().String(),
				ProductID:  productID,
				Period:     start.AddDate(0, 0, i).Format("2006-01-02"),
				Quantity:   meanDaily,
				ComputedAt: now,
			}
			if err := uc.forecastRepo.Upsert(f); err != nil {
				return nil, err
			}
			out = append(out, f)
		}
	}
	return out, nil
}

// List returns stored forecasts, optionally filtered by product.
func (uc *UseCase) List(ctx context.Context, productID *string, limit, offset int) ([]*entity.DemandForecast, error) {
	return uc.forecastRepo.List(productID, limit, offset)
}
