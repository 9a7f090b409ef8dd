package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mokpokpo/supply-api/internal/application/catalog"
	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/testutil"
)

func newUseCase(store *testutil.Store) *catalog.UseCase {
	return catalog.NewUseCase(
		&testutil.TxRunner{S: store},
		&testutil.ProductRepo{S: store},
		&testutil.PriceHistoryRepo{S: store},
		&testutil.WarehouseRepo{S: store},
		&testutil.LocationRepo{S: store},
	)
}

func TestCreateProduct_SeedsPriceHistory(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)

	product, err := uc.CreateProduct(context.Background(), catalog.CreateProductInput{
		Name: "Café Arabica", Kind: entity.ProductKindCoffee, Unit: "kg",
		ReferencePrice: decimal.NewFromInt(1500),
	})
	require.NoError(t, err)

	history, err := uc.ListPriceHistory(context.Background(), product.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, history, 1, "creation seeds the price log")
	assert.True(t, history[0].Price.Equal(decimal.NewFromInt(1500)))
}

func TestCreateProduct_Validation(t *testing.T) {
	uc := newUseCase(testutil.NewStore())
	ctx := context.Background()

	_, err := uc.CreateProduct(ctx, catalog.CreateProductInput{
		Name: "", Kind: entity.ProductKindCoffee, Unit: "kg",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateProduct(ctx, catalog.CreateProductInput{
		Name: "Thé vert", Kind: "TEA", Unit: "kg",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "kinds are a closed set")

	_, err = uc.CreateProduct(ctx, catalog.CreateProductInput{
		Name: "Café", Kind: entity.ProductKindCoffee, Unit: "kg",
		ReferencePrice: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateReferencePrice(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	ctx := context.Background()

	product, err := uc.CreateProduct(ctx, catalog.CreateProductInput{
		Name: "Café Arabica", Kind: entity.ProductKindCoffee, Unit: "kg",
		ReferencePrice: decimal.NewFromInt(1500),
	})
	require.NoError(t, err)

	nextDay := time.Now().AddDate(0, 0, 1)
	require.NoError(t, uc.UpdateReferencePrice(ctx, product.ID, decimal.NewFromInt(1600), nextDay))

	updated, err := uc.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, updated.ReferencePrice.Equal(decimal.NewFromInt(1600)))

	history, err := uc.ListPriceHistory(ctx, product.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2, "each change appends to the log")

	// Second change the same day collides with the (product, date) key.
	err = uc.UpdateReferencePrice(ctx, product.ID, decimal.NewFromInt(1700), nextDay)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdateReferencePrice_UnknownProduct(t *testing.T) {
	uc := newUseCase(testutil.NewStore())
	err := uc.UpdateReferencePrice(context.Background(), "ghost", decimal.NewFromInt(10), time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateLocation_UniquePerWarehouse(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	ctx := context.Background()

	w1, err := uc.CreateWarehouse(ctx, "Entrepôt Nord", "Kpalimé")
	require.NoError(t, err)
	w2, err := uc.CreateWarehouse(ctx, "Entrepôt Sud", "Lomé")
	require.NoError(t, err)

	_, err = uc.CreateLocation(ctx, w1.ID, "E1-R2-N3")
	require.NoError(t, err)

	_, err = uc.CreateLocation(ctx, w1.ID, "E1-R2-N3")
	assert.ErrorIs(t, err, domain.ErrDuplicate, "code is unique within a warehouse")

	_, err = uc.CreateLocation(ctx, w2.ID, "E1-R2-N3")
	assert.NoError(t, err, "the same code in another warehouse is fine")
}

func TestCreateLocation_UnknownWarehouse(t *testing.T) {
	uc := newUseCase(testutil.NewStore())
	_, err := uc.CreateLocation(context.Background(), "ghost", "E1-R1-N1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
