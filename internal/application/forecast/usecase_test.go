package forecast_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokpokpo/supply-api/internal/application/forecast"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/testutil"
)

// seedExit records an EXIT movement of qty kg against lotID on the given day.
func seedExit(store *testutil.Store, lotID string, day time.Time, qty int64) {
	store.Movements = append(store.Movements, &entity.StockMovement{
		ID: lotID + day.Format("20060102"), LotID: lotID,
		Type: entity.MovementTypeExit, Quantity: decimal.NewFromInt(qty),
		UserID: "stk1", Date: day,
	})
}

func newUseCase(store *testutil.Store) *forecast.UseCase {
	return forecast.NewUseCase(
		&testutil.StockMovementRepo{S: store},
		&testutil.ForecastRepo{S: store},
	)
}

func TestComputeForecasts_MeanOverCalendarDays(t *testing.T) {
	store := testutil.NewStore()
	store.Lots["lot1"] = &entity.Lot{ID: "lot1", Code: "CAF-1", ProductID: "p1"}

	// 30 kg over a 3-day span (day two has no exits): mean 10/day.
	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 8, 3, 16, 0, 0, 0, time.UTC)
	seedExit(store, "lot1", day1, 12)
	seedExit(store, "lot1", day3, 18)

	uc := newUseCase(store)
	out, err := uc.ComputeForecasts(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out, 7, "one row per day of the horizon")

	tomorrow := time.Now().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	for i, f := range out {
		assert.Equal(t, "p1", f.ProductID)
		assert.Equal(t, tomorrow.AddDate(0, 0, i).Format("2006-01-02"), f.Period)
		assert.True(t, f.Quantity.Equal(decimal.NewFromInt(10)),
			"expected mean 10, got %s", f.Quantity)
	}
	assert.Len(t, store.Forecasts, 7, "rows persisted")
}

func TestComputeForecasts_PerProduct(t *testing.T) {
	store := testutil.NewStore()
	store.Lots["lot1"] = &entity.Lot{ID: "lot1", Code: "CAF-1", ProductID: "p1"}
	store.Lots["lot2"] = &entity.Lot{ID: "lot2", Code: "CAC-1", ProductID: "p2"}

	day := time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC)
	seedExit(store, "lot1", day, 40)
	seedExit(store, "lot2", day, 8)

	uc := newUseCase(store)
	out, err := uc.ComputeForecasts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, out, 4, "2 products x 2 days")

	byProduct := make(map[string]decimal.Decimal)
	for _, f := range out {
		byProduct[f.ProductID] = f.Quantity
	}
	assert.True(t, byProduct["p1"].Equal(decimal.NewFromInt(40)))
	assert.True(t, byProduct["p2"].Equal(decimal.NewFromInt(8)))
}

func TestComputeForecasts_RecomputeOverwrites(t *testing.T) {
	store := testutil.NewStore()
	store.Lots["lot1"] = &entity.Lot{ID: "lot1", Code: "CAF-1", ProductID: "p1"}
	day := time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC)
	seedExit(store, "lot1", day, 10)

	uc := newUseCase(store)
	_, err := uc.ComputeForecasts(context.Background(), 3)
	require.NoError(t, err)

	// More history arrives on the same day: the daily mean becomes 50.
	seedExit(store, "lot1", day.Add(2*time.Hour), 40)
	_, err = uc.ComputeForecasts(context.Background(), 3)
	require.NoError(t, err)

	assert.Len(t, store.Forecasts, 3, "upsert keeps one row per (product, period)")
	for _, f := range store.Forecasts {
		assert.True(t, f.Quantity.Equal(decimal.NewFromInt(50)), "got %s", f.Quantity)
	}
}

func TestComputeForecasts_NoHistory(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	out, err := uc.ComputeForecasts(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestComputeForecasts_DefaultHorizon(t *testing.T) {
	store := testutil.NewStore()
	store.Lots["lot1"] = &entity.Lot{ID: "lot1", Code: "CAF-1", ProductID: "p1"}
	seedExit(store, "lot1", time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC), 7)

	uc := newUseCase(store)
	out, err := uc.ComputeForecasts(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, out, forecast.DefaultHorizonDays)
}

func TestList_FilterByProduct(t *testing.T) {
	store := testutil.NewStore()
	store.Forecasts["p1|2026-09-01"] = &entity.DemandForecast{ID: "f1", ProductID: "p1", Period: "2026-09-01"}
	store.Forecasts["p2|2026-09-01"] = &entity.DemandForecast{ID: "f2", ProductID: "p2", Period: "2026-09-01"}

	uc := newUseCase(store)
	p1 := "p1"
	out, err := uc.List(context.Background(), &p1, 20, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ProductID)
}
