package inventory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokpokpo/supply-api/internal/application/inventory"
	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/testutil"
)

type fixture struct {
	store *testutil.Store
	uc    *inventory.UseCase
}

// newFixture seeds a product and two locations in the same warehouse.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore()
	now := time.Now()
	store.Products["p1"] = &entity.Product{
		ID: "p1", Name: "Café Arabica", Kind: entity.ProductKindCoffee, Unit: "kg",
		ReferencePrice: decimal.NewFromInt(1500), CreatedAt: now, UpdatedAt: now,
	}
	store.Warehouses["w1"] = &entity.Warehouse{ID: "w1", Name: "Entrepôt Nord"}
	store.Locations["loc1"] = &entity.Location{ID: "loc1", WarehouseID: "w1", Code: "E1-R1-N1"}
	store.Locations["loc2"] = &entity.Location{ID: "loc2", WarehouseID: "w1", Code: "E1-R2-N1"}

	uc := inventory.NewUseCase(
		&testutil.TxRunner{S: store},
		&testutil.ProductRepo{S: store},
		&testutil.LocationRepo{S: store},
		&testutil.LotRepo{S: store},
		&testutil.StockMovementRepo{S: store},
	)
	return &fixture{store: store, uc: uc}
}

// seedLot creates a lot of 100 kg at loc1 through the use case.
func (f *fixture) seedLot(t *testing.T) *entity.Lot {
	t.Helper()
	lot, err := f.uc.CreateLot(context.Background(), inventory.CreateLotInput{
		ProductID:      "p1",
		LocationID:     "loc1",
		Quantity:       decimal.NewFromInt(100),
		ProductionDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return lot
}

func strPtr(s string) *string { return &s }

func TestCreateLot(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)

	assert.Equal(t, "CAF", lot.Code[:3], "code prefix comes from the product name")
	assert.True(t, lot.RemainingQuantity.Equal(lot.InitialQuantity),
		"remaining starts equal to initial")
	require.NotNil(t, lot.LocationID)
	assert.Equal(t, "loc1", *lot.LocationID)
}

func TestCreateLot_NonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateLot(context.Background(), inventory.CreateLotInput{
		ProductID: "p1", LocationID: "loc1", Quantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateLot_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateLot(context.Background(), inventory.CreateLotInput{
		ProductID: "nope", LocationID: "loc1", Quantity: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement_RejectsInvalidShapes(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)

	cases := []struct {
		name  string
		input inventory.MovementInput
	}{
		{"entry with source", inventory.MovementInput{
			LotID: lot.ID, Type: entity.MovementTypeEntry,
			Quantity: decimal.NewFromInt(5), SourceID: strPtr("loc1"),
		}},
		{"exit with destination", inventory.MovementInput{
			LotID: lot.ID, Type: entity.MovementTypeExit,
			Quantity: decimal.NewFromInt(5), DestinationID: strPtr("loc2"),
		}},
		{"transfer without destination", inventory.MovementInput{
			LotID: lot.ID, Type: entity.MovementTypeTransfer,
			Quantity: decimal.NewFromInt(5), SourceID: strPtr("loc1"),
		}},
		{"transfer to itself", inventory.MovementInput{
			LotID: lot.ID, Type: entity.MovementTypeTransfer,
			Quantity: decimal.NewFromInt(5), SourceID: strPtr("loc1"), DestinationID: strPtr("loc1"),
		}},
		{"unknown type", inventory.MovementInput{
			LotID: lot.ID, Type: "ADJUST", Quantity: decimal.NewFromInt(5),
		}},
		{"zero quantity", inventory.MovementInput{
			LotID: lot.ID, Type: entity.MovementTypeExit, Quantity: decimal.Zero,
		}},
		{"missing lot id", inventory.MovementInput{
			Type: entity.MovementTypeEntry, Quantity: decimal.NewFromInt(5),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.RecordMovement(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	// Nothing was recorded and the lot is untouched.
	assert.Empty(t, f.store.Movements)
	stored := f.store.Lots[lot.ID]
	assert.True(t, stored.RemainingQuantity.Equal(decimal.NewFromInt(100)))
}

func TestRecordMovement_Entry(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)

	mov, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		LotID: lot.ID, Type: entity.MovementTypeEntry,
		Quantity: decimal.NewFromInt(40), ActorID: "u-stock",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeEntry, mov.Type)

	stored := f.store.Lots[lot.ID]
	assert.True(t, stored.InitialQuantity.Equal(decimal.NewFromInt(140)),
		"ENTRY grows the received-to-date total")
	assert.True(t, stored.RemainingQuantity.Equal(decimal.NewFromInt(140)))
}

func TestRecordMovement_EntryWithDestinationRelocates(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)

	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		LotID: lot.ID, Type: entity.MovementTypeEntry,
		Quantity: decimal.NewFromInt(10), DestinationID: strPtr("loc2"), ActorID: "u-stock",
	})
	require.NoError(t, err)

	stored := f.store.Lots[lot.ID]
	require.NotNil(t, stored.LocationID)
	assert.Equal(t, "loc2", *stored.LocationID)
}

func TestRecordMovement_ExitDefaultsSourceToLotLocation(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)

	mov, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		LotID: lot.ID, Type: entity.MovementTypeExit,
		Quantity: decimal.NewFromInt(30), ActorID: "u-stock",
	})
	require.NoError(t, err)
	require.NotNil(t, mov.SourceID)
	assert.Equal(t, "loc1", *mov.SourceID)

	stored := f.store.Lots[lot.ID]
	assert.True(t, stored.RemainingQuantity.Equal(decimal.NewFromInt(70)))
	assert.True(t, stored.InitialQuantity.Equal(decimal.NewFromInt(100)),
		"EXIT does not touch the received-to-date total")
}

func TestRecordMovement_ExitSourceMismatch(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)

	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		LotID: lot.ID, Type: entity.MovementTypeExit,
		Quantity: decimal.NewFromInt(10), SourceID: strPtr("loc2"), ActorID: "u-stock",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordMovement_ExitInsufficientStock(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)

	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		LotID: lot.ID, Type: entity.MovementTypeExit,
		Quantity: decimal.NewFromInt(101), ActorID: "u-stock",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Failed movement leaves no trace.
	stored := f.store.Lots[lot.ID]
	assert.True(t, stored.RemainingQuantity.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, f.store.Movements)
}

func TestRecordMovement_Transfer(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)

	mov, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		LotID: lot.ID, Type: entity.MovementTypeTransfer,
		Quantity: decimal.NewFromInt(100),
		SourceID: strPtr("loc1"), DestinationID: strPtr("loc2"), ActorID: "u-stock",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeTransfer, mov.Type)

	stored := f.store.Lots[lot.ID]
	require.NotNil(t, stored.LocationID)
	assert.Equal(t, "loc2", *stored.LocationID, "TRANSFER relocates the lot")
	assert.True(t, stored.RemainingQuantity.Equal(decimal.NewFromInt(100)),
		"TRANSFER does not change the balance")
}

func TestRecordMovement_TransferSourceMustMatchLotLocation(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)

	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		LotID: lot.ID, Type: entity.MovementTypeTransfer,
		Quantity: decimal.NewFromInt(10),
		SourceID: strPtr("loc2"), DestinationID: strPtr("loc1"), ActorID: "u-stock",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordMovement_UnknownLocation(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)

	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		LotID: lot.ID, Type: entity.MovementTypeExit,
		Quantity: decimal.NewFromInt(10), SourceID: strPtr("ghost"), ActorID: "u-stock",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Concurrent EXITs against one lot must serialize on the row lock: the sum
// of successful debits never exceeds the remaining balance.
func TestRecordMovement_ConcurrentExits(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t) // 100 kg

	const workers = 10
	exitQty := decimal.NewFromInt(30)

	var successes int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
				LotID: lot.ID, Type: entity.MovementTypeExit,
				Quantity: exitQty, ActorID: "u-stock",
			})
			if err == nil {
				atomic.AddInt64(&successes, 1)
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 3, successes, "only 3 debits of 30 fit in 100")
	stored := f.store.Lots[lot.ID]
	assert.True(t, stored.RemainingQuantity.Equal(decimal.NewFromInt(10)))
	assert.Len(t, f.store.Movements, 3, "one movement per successful debit")
}

func TestListMovements_ScopedToLot(t *testing.T) {
	f := newFixture(t)
	lot := f.seedLot(t)
	// Second lot seeded directly: codes are second-granular timestamps.
	loc := "loc2"
	other := &entity.Lot{
		ID: "lot-b", Code: "CAF-19990101000000", ProductID: "p1",
		InitialQuantity:   decimal.NewFromInt(50),
		RemainingQuantity: decimal.NewFromInt(50),
		LocationID:        &loc,
	}
	f.store.Lots[other.ID] = other

	_, err := f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		LotID: lot.ID, Type: entity.MovementTypeExit,
		Quantity: decimal.NewFromInt(5), ActorID: "u-stock",
	})
	require.NoError(t, err)
	_, err = f.uc.RecordMovement(context.Background(), inventory.MovementInput{
		LotID: other.ID, Type: entity.MovementTypeExit,
		Quantity: decimal.NewFromInt(7), ActorID: "u-stock",
	})
	require.NoError(t, err)

	movements, err := f.uc.ListMovements(context.Background(), lot.ID, nil, nil, 20, 0)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, lot.ID, movements[0].LotID)

	all, err := f.uc.ListMovements(context.Background(), "", nil, nil, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
