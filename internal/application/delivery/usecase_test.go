package delivery_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdelivery "github.com/mokpokpo/supply-api/internal/application/delivery"
	"github.com/mokpokpo/supply-api/internal/application/inventory"
	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
	"github.com/mokpokpo/supply-api/internal/testutil"
)

type fixture struct {
	store *testutil.Store
	uc    *appdelivery.UseCase
}

// newFixture seeds a product, a 100 kg lot at loc1, a wholesaler, an
// active driver and an inactive one.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	now := time.Now()
	loc := "loc1"

	store.Products["p1"] = &entity.Product{
		ID: "p1", Name: "Café Arabica", Kind: entity.ProductKindCoffee, Unit: "kg",
	}
	store.Products["p2"] = &entity.Product{
		ID: "p2", Name: "Cacao Forastero", Kind: entity.ProductKindCocoa, Unit: "kg",
	}
	store.Locations["loc1"] = &entity.Location{ID: "loc1", WarehouseID: "w1", Code: "E1-R1-N1"}
	store.Lots["lot1"] = &entity.Lot{
		ID: "lot1", Code: "CAF-20260201080000", ProductID: "p1",
		InitialQuantity:   decimal.NewFromInt(100),
		RemainingQuantity: decimal.NewFromInt(100),
		LocationID:        &loc, CreatedAt: now, UpdatedAt: now,
	}
	store.Users["whs1"] = &entity.User{ID: "whs1", Username: "grossiste1", Role: entity.RoleWholesaler, Active: true}
	store.Users["drv1"] = &entity.User{ID: "drv1", Username: "livreur1", Role: entity.RoleDriver, Active: true}
	store.Users["drv2"] = &entity.User{ID: "drv2", Username: "livreur2", Role: entity.RoleDriver, Active: false}
	store.Users["stk1"] = &entity.User{ID: "stk1", Username: "magasinier1", Role: entity.RoleStock, Active: true}

	recorder := inventory.NewUseCase(
		&testutil.TxRunner{S: store},
		&testutil.ProductRepo{S: store},
		&testutil.LocationRepo{S: store},
		&testutil.LotRepo{S: store},
		&testutil.StockMovementRepo{S: store},
	)
	uc := appdelivery.NewUseCase(
		&testutil.TxRunner{S: store},
		recorder,
		&testutil.DeliveryRepo{S: store},
		&testutil.ProductRepo{S: store},
		&testutil.UserRepo{S: store},
	)
	return &fixture{store: store, uc: uc}
}

// createOrder opens an order for 30 kg of p1 owned by whs1.
func (f *fixture) createOrder(t *testing.T) (*entity.Delivery, *entity.DeliveryLine) {
	t.Helper()
	delivery, err := f.uc.CreateOrder(context.Background(), appdelivery.CreateOrderInput{
		WholesalerID:  "whs1",
		ProductID:     "p1",
		Quantity:      decimal.NewFromInt(30),
		RequestedDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	lines, err := (&testutil.DeliveryRepo{S: f.store}).ListLines(delivery.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	return delivery, lines[0]
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	delivery, line := f.createOrder(t)

	assert.True(t, strings.HasPrefix(delivery.Number, "LIV-"))
	assert.Equal(t, entity.DeliveryStatusPreparation, delivery.Status)
	assert.Nil(t, delivery.DriverID)
	assert.False(t, line.Fulfilled())
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(30)))
}

func TestCreateOrder_Invalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), appdelivery.CreateOrderInput{
		WholesalerID: "whs1", ProductID: "p1", Quantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.CreateOrder(context.Background(), appdelivery.CreateOrderInput{
		WholesalerID: "whs1", ProductID: "ghost", Quantity: decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFulfillLine_DebitsLotAndMovesEnRoute(t *testing.T) {
	f := newFixture(t)
	delivery, line := f.createOrder(t)

	err := f.uc.FulfillLine(context.Background(), appdelivery.FulfillInput{
		LineID: line.ID, LotID: "lot1",
		Quantity: decimal.NewFromInt(30), DriverID: "drv1", ActorID: "stk1",
	})
	require.NoError(t, err)

	lot := f.store.Lots["lot1"]
	assert.True(t, lot.RemainingQuantity.Equal(decimal.NewFromInt(70)),
		"30 of 100 reserved for the delivery")

	require.Len(t, f.store.Movements, 1)
	mov := f.store.Movements[0]
	assert.Equal(t, entity.MovementTypeExit, mov.Type)
	assert.Equal(t, "stk1", mov.UserID, "the stock manager is the movement actor")
	require.NotNil(t, mov.SourceID)
	assert.Equal(t, "loc1", *mov.SourceID)

	stored := f.store.Deliveries[delivery.ID]
	assert.Equal(t, entity.DeliveryStatusEnRoute, stored.Status,
		"single line fulfilled, delivery leaves preparation")
	require.NotNil(t, stored.DriverID)
	assert.Equal(t, "drv1", *stored.DriverID)
	assert.True(t, f.store.Lines[line.ID].Fulfilled())
}

func TestFulfillLine_TwoLines_EnRouteOnlyWhenAllFulfilled(t *testing.T) {
	f := newFixture(t)
	delivery, first := f.createOrder(t)
	second, err := f.uc.AddLine(context.Background(), delivery.ID, "p1", decimal.NewFromInt(20))
	require.NoError(t, err)

	err = f.uc.FulfillLine(context.Background(), appdelivery.FulfillInput{
		LineID: first.ID, LotID: "lot1",
		Quantity: decimal.NewFromInt(30), DriverID: "drv1", ActorID: "stk1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusPreparation, f.store.Deliveries[delivery.ID].Status,
		"one line still open, delivery stays in preparation")

	err = f.uc.FulfillLine(context.Background(), appdelivery.FulfillInput{
		LineID: second.ID, LotID: "lot1",
		Quantity: decimal.NewFromInt(20), DriverID: "drv1", ActorID: "stk1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DeliveryStatusEnRoute, f.store.Deliveries[delivery.ID].Status)
	assert.True(t, f.store.Lots["lot1"].RemainingQuantity.Equal(decimal.NewFromInt(50)))
}

func TestFulfillLine_AlreadyFulfilled(t *testing.T) {
	f := newFixture(t)
	_, line := f.createOrder(t)

	in := appdelivery.FulfillInput{
		LineID: line.ID, LotID: "lot1",
		Quantity: decimal.NewFromInt(30), DriverID: "drv1", ActorID: "stk1",
	}
	require.NoError(t, f.uc.FulfillLine(context.Background(), in))
	err := f.uc.FulfillLine(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFulfillLine_ProductMismatch(t *testing.T) {
	f := newFixture(t)
	delivery, err := f.uc.CreateOrder(context.Background(), appdelivery.CreateOrderInput{
		WholesalerID: "whs1", ProductID: "p2",
		Quantity: decimal.NewFromInt(10), RequestedDate: time.Now(),
	})
	require.NoError(t, err)
	lines, err := (&testutil.DeliveryRepo{S: f.store}).ListLines(delivery.ID)
	require.NoError(t, err)

	// lot1 holds coffee, the line asks for cocoa.
	err = f.uc.FulfillLine(context.Background(), appdelivery.FulfillInput{
		LineID: lines[0].ID, LotID: "lot1",
		Quantity: decimal.NewFromInt(10), DriverID: "drv1", ActorID: "stk1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAssignment)
	assert.True(t, f.store.Lots["lot1"].RemainingQuantity.Equal(decimal.NewFromInt(100)))
}

func TestFulfillLine_InvalidDriver(t *testing.T) {
	f := newFixture(t)
	_, line := f.createOrder(t)

	for _, driverID := range []string{"whs1", "drv2", "ghost"} {
		err := f.uc.FulfillLine(context.Background(), appdelivery.FulfillInput{
			LineID: line.ID, LotID: "lot1",
			Quantity: decimal.NewFromInt(10), DriverID: driverID, ActorID: "stk1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAssignment, "driver %s", driverID)
	}
	assert.Empty(t, f.store.Movements, "no movement recorded on failed assignment")
}

func TestFulfillLine_InsufficientStockLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	delivery, line := f.createOrder(t)

	err := f.uc.FulfillLine(context.Background(), appdelivery.FulfillInput{
		LineID: line.ID, LotID: "lot1",
		Quantity: decimal.NewFromInt(150), DriverID: "drv1", ActorID: "stk1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.store.Lots["lot1"].RemainingQuantity.Equal(decimal.NewFromInt(100)))
	assert.False(t, f.store.Lines[line.ID].Fulfilled())
	assert.Equal(t, entity.DeliveryStatusPreparation, f.store.Deliveries[delivery.ID].Status)
	assert.Empty(t, f.store.Movements)
}

// Two stock managers racing over the same 100 kg lot with 70 kg each: one
// wins, the other hits the balance check.
func TestFulfillLine_ConcurrentOverAllocation(t *testing.T) {
	f := newFixture(t)
	delivery, first := f.createOrder(t)
	second, err := f.uc.AddLine(context.Background(), delivery.ID, "p1", decimal.NewFromInt(70))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, lineID := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, lineID string) {
			defer wg.Done()
			errs[i] = f.uc.FulfillLine(context.Background(), appdelivery.FulfillInput{
				LineID: lineID, LotID: "lot1",
				Quantity: decimal.NewFromInt(70), DriverID: "drv1", ActorID: "stk1",
			})
		}(i, lineID)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two debits must fail")
	assert.True(t, f.store.Lots["lot1"].RemainingQuantity.Equal(decimal.NewFromInt(30)))
	assert.Len(t, f.store.Movements, 1)
}

func TestAddLine_OnEnRouteDeliveryReopensCompleteness(t *testing.T) {
	f := newFixture(t)
	delivery, line := f.createOrder(t)

	require.NoError(t, f.uc.FulfillLine(context.Background(), appdelivery.FulfillInput{
		LineID: line.ID, LotID: "lot1",
		Quantity: decimal.NewFromInt(30), DriverID: "drv1", ActorID: "stk1",
	}))
	require.Equal(t, entity.DeliveryStatusEnRoute, f.store.Deliveries[delivery.ID].Status)

	added, err := f.uc.AddLine(context.Background(), delivery.ID, "p1", decimal.NewFromInt(10))
	require.NoError(t, err)

	_, lines, err := f.uc.Get(context.Background(), delivery.ID)
	require.NoError(t, err)
	fulfilled := 0
	for _, l := range lines {
		if l.Fulfilled() {
			fulfilled++
		}
	}
	assert.Equal(t, 1, fulfilled, "the added line must not appear fulfilled")
	assert.False(t, f.store.Lines[added.ID].Fulfilled())
}

func TestAddLine_Guards(t *testing.T) {
	f := newFixture(t)
	delivery, _ := f.createOrder(t)

	_, err := f.uc.AddLine(context.Background(), delivery.ID, "p1", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.AddLine(context.Background(), "ghost", "p1", decimal.NewFromInt(5))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.store.Deliveries[delivery.ID].Status = entity.DeliveryStatusDelivered
	_, err = f.uc.AddLine(context.Background(), delivery.ID, "p1", decimal.NewFromInt(5))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMarkDelivered(t *testing.T) {
	f := newFixture(t)
	delivery, line := f.createOrder(t)

	// Not EN_ROUTE yet and no driver assigned.
	err := f.uc.MarkDelivered(context.Background(), delivery.ID, "drv1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.uc.FulfillLine(context.Background(), appdelivery.FulfillInput{
		LineID: line.ID, LotID: "lot1",
		Quantity: decimal.NewFromInt(30), DriverID: "drv1", ActorID: "stk1",
	}))

	// Only the assigned driver may close it.
	err = f.uc.MarkDelivered(context.Background(), delivery.ID, "stk1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.uc.MarkDelivered(context.Background(), delivery.ID, "drv1"))
	assert.Equal(t, entity.DeliveryStatusDelivered, f.store.Deliveries[delivery.ID].Status)

	// DELIVERED is terminal.
	err = f.uc.MarkDelivered(context.Background(), delivery.ID, "drv1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestList_FilterByStatus(t *testing.T) {
	f := newFixture(t)
	_, line := f.createOrder(t)
	f.createOrder(t)

	require.NoError(t, f.uc.FulfillLine(context.Background(), appdelivery.FulfillInput{
		LineID: line.ID, LotID: "lot1",
		Quantity: decimal.NewFromInt(30), DriverID: "drv1", ActorID: "stk1",
	}))

	enRoute := entity.DeliveryStatusEnRoute
	out, err := f.uc.List(context.Background(), repository.DeliveryFilter{Status: &enRoute}, 20, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, entity.DeliveryStatusEnRoute, out[0].Status)
}
