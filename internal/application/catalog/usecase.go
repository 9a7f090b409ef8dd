package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// UseCase manages the reference data: products (with their price history),
// warehouses and locations.
type UseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	priceRepo     repository.PriceHistoryRepository
	warehouseRepo repository.WarehouseRepository
	locationRepo  repository.LocationRepository
}

// NewUseCase builds the use case.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	priceRepo repository.PriceHistoryRepository,
	warehouseRepo repository.WarehouseRepository,
	locationRepo repository.LocationRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		priceRepo:     priceRepo,
		warehouseRepo: warehouseRepo,
		locationRepo:  locationRepo,
	}
}

// CreateProductInput is the input for CreateProduct.
type CreateProductInput struct {
	Name           string
	Kind           string // COFFEE, COCOA
	Unit           string // kg, sac
	ReferencePrice decimal.Decimal
}

// CreateProduct registers a commodity and seeds its price history with the
// initial reference price, atomically.
func (uc *UseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*entity.Product, error) {
	if input.Name == "" || input.Unit == "" {
		return nil, fmt.Errorf("%w: name and unit required", domain.ErrInvalidInput)
	}
	if !entity.ValidProductKind(input.Kind) {
		return nil, fmt.Errorf("%w: kind must be COFFEE or COCOA", domain.ErrInvalidInput)
	}
	if input.ReferencePrice.IsNegative() {
		return nil, fmt.Errorf("%w: reference price cannot be negative", domain.ErrInvalidInput)
	}

	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Kind:           input.Kind,
		Unit:           input.Unit,
		ReferencePrice: input.ReferencePrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.txRunner.RunCatalog(ctx, func(
		productRepo repository.ProductRepository,
		priceRepo repository.PriceHistoryRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		return priceRepo.Append(&entity.PriceHistory{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Price:     input.ReferencePrice,
			Date:      now.Truncate(24 * time.Hour),
		})
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateReferencePrice sets a new reference price and appends the history
// entry for the given date in one transaction. One entry per (product,
// date); a second update the same day fails with ErrDuplicate.
func (uc *UseCase) UpdateReferencePrice(ctx context.Context, productID string, price decimal.Decimal, date time.Time) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: reference price cannot be negative", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	return uc.txRunner.RunCatalog(ctx, func(
		productRepo repository.ProductRepository,
		priceRepo repository.PriceHistoryRepository,
	) error {
		if err := productRepo.UpdateReferencePrice(productID, price); err != nil {
			return err
		}
		return priceRepo.Append(&entity.PriceHistory{
			ID:        uuid.New().String(),
			ProductID: productID,
			Price:     price,
			Date:      date.Truncate(24 * time.Hour),
		})
	})
}

// GetProduct returns one product by ID.
func (uc *UseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	return product, nil
}

// ListProducts returns products with pagination.
func (uc *UseCase) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.List(limit, offset)
}

// ListPriceHistory returns a product's price log, newest first.
func (uc *UseCase) ListPriceHistory(ctx context.Context, productID string, limit, offset int) ([]*entity.PriceHistory, error) {
	return uc.priceRepo.ListByProduct(productID, limit, offset)
}

// CreateWarehouse registers a warehouse.
func (uc *UseCase) CreateWarehouse(ctx context.Context, name, address string) (*entity.Warehouse, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.warehouseRepo.Create(warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// GetWarehouse returns one warehouse by ID.
func (uc *UseCase) GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	warehouse, err := uc.warehouseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("%w: warehouse %s", domain.ErrNotFound, id)
	}
	return warehouse, nil
}

// ListWarehouses returns warehouses with pagination.
func (uc *UseCase) ListWarehouses(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	return uc.warehouseRepo.List(limit, offset)
}

// CreateLocation registers a storage slot. The code must be unique within
// its warehouse.
func (uc *UseCase) CreateLocation(ctx context.Context, warehouseID, code string) (*entity.Location, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: code required", domain.ErrInvalidInput)
	}
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("%w: warehouse %s", domain.ErrNotFound, warehouseID)
	}
	existing, err := uc.locationRepo.GetByWarehouseAndCode(warehouseID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: location code %s in warehouse %s", domain.ErrDuplicate, code, warehouseID)
	}

	location := &entity.Location{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		Code:        code,
		CreatedAt:   time.Now(),
	}
	if err := uc.locationRepo.Create(location); err != nil {
		return nil, err
	}
	return location, nil
}

// ListLocations returns a warehouse's locations.
func (uc *UseCase) ListLocations(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Location, error) {
	return uc.locationRepo.ListByWarehouse(warehouseID, limit, offset)
}
