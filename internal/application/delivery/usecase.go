package delivery

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

// UseCase drives the delivery order workflow: order creation by a
// wholesaler, line fulfillment by a stock manager (which reserves lot
// quantity through the movement recorder) and the forward-only status
// machine PREPARATION -> EN_ROUTE -> DELIVERED.
type UseCase struct {
	txRunner     TxRunner
	recorder     MovementRecorder
	deliveryRepo repository.DeliveryRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
}

// NewUseCase builds the use case.
func NewUseCase(
	txRunner TxRunner,
	recorder MovementRecorder,
	deliveryRepo repository.DeliveryRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		recorder:     recorder,
		deliveryRepo: deliveryRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
	}
}

// CreateOrderInput is the input for CreateOrder.
type CreateOrderInput struct {
	WholesalerID  string
	ProductID     string
	Quantity      decimal.Decimal
	RequestedDate time.Time
}

// CreateOrder opens a delivery in PREPARATION with a single unfulfilled
// line. Header and line are written in one transaction.
func (uc *UseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*entity.Delivery, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, input.ProductID)
	}

	now := time.Now()
	delivery := &entity.Delivery{
		ID:            uuid.New().String(),
		Number:        fmt.Sprintf("LIV-%s", now.Format("20060102150405")),
		WholesalerID:  input.WholesalerID,
		Status:        entity.DeliveryStatusPreparation,
		RequestedDate: input.RequestedDate,
		CreatedAt:     now,
	}
	line := &entity.DeliveryLine{
		ID:         uuid.New().String(),
		DeliveryID: delivery.ID,
		ProductID:  product.ID,
		Quantity:   input.Quantity,
	}
	err = uc.txRunner.RunDelivery(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.LotRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		if err := deliveryRepo.Create(delivery); err != nil {
			return err
		}
		return deliveryRepo.CreateLine(line)
	})
	if err != nil {
		return nil, err
	}
	return delivery, nil
}

// AddLine appends a product/quantity request to an existing delivery.
// Allowed until the delivery is DELIVERED; an added line on an EN_ROUTE
// delivery simply awaits fulfillment (the completeness check always
// re-reads the full line set, so it can never appear fulfilled).
func (uc *UseCase) AddLine(ctx context.Context, deliveryID, productID string, quantity decimal.Decimal) (*entity.DeliveryLine, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	delivery, err := uc.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, fmt.Errorf("%w: delivery %s", domain.ErrNotFound, deliveryID)
	}
	if delivery.Status == entity.DeliveryStatusDelivered {
		return nil, fmt.Errorf("%w: delivery already delivered", domain.ErrConflict)
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}

	line := &entity.DeliveryLine{
		ID:         uuid.New().String(),
		DeliveryID: delivery.ID,
		ProductID:  product.ID,
		Quantity:   quantity,
	}
	if err := uc.deliveryRepo.CreateLine(line); err != nil {
		return nil, err
	}
	return line, nil
}

// FulfillInput is the input for FulfillLine.
type FulfillInput struct {
	LineID   string
	LotID    string
	Quantity decimal.Decimal
	DriverID string
	ActorID  string // stock manager performing the assignment
}

// FulfillLine binds a lot and a driver to a delivery line. In one
// transaction it locks the lot, debits it, appends the EXIT movement,
// updates the line and, if every line of the delivery now has a lot,
// moves the delivery to EN_ROUTE.
func (uc *UseCase) FulfillLine(ctx context.Context, input FulfillInput) error {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	driver, err := uc.userRepo.GetByID(input.DriverID)
	if err != nil {
		return err
	}
	if driver == nil || driver.Role != entity.RoleDriver || !driver.Active {
		return fmt.Errorf("%w: invalid driver", domain.ErrInvalidAssignment)
	}

	now := time.Now()
	return uc.txRunner.RunDelivery(ctx, func(
		movRepo repository.StockMovementRepository,
		lotRepo repository.LotRepository,
		deliveryRepo repository.DeliveryRepository,
	) error {
		line, err := deliveryRepo.GetLineByID(input.LineID)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("%w: delivery line %s", domain.ErrNotFound, input.LineID)
		}
		if line.Fulfilled() {
			return fmt.Errorf("%w: line already fulfilled", domain.ErrConflict)
		}
		delivery, err := deliveryRepo.GetByID(line.DeliveryID)
		if err != nil {
			return err
		}
		if delivery == nil {
			return fmt.Errorf("%w: delivery %s", domain.ErrNotFound, line.DeliveryID)
		}
		if delivery.Status == entity.DeliveryStatusDelivered {
			return fmt.Errorf("%w: delivery already delivered", domain.ErrConflict)
		}

		// Row lock: concurrent fulfillments against the same lot serialize
		// here, so combined debits can never exceed the remaining balance.
		lot, err := lotRepo.GetForUpdate(input.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("%w: lot %s", domain.ErrNotFound, input.LotID)
		}
		if lot.ProductID != line.ProductID {
			return fmt.Errorf("%w: lot product does not match line product", domain.ErrInvalidAssignment)
		}

		if err := uc.recorder.RecordExitInTx(movRepo, lotRepo, lot, input.Quantity, input.ActorID, now); err != nil {
			return err
		}

		line.LotID = &lot.ID
		line.Quantity = input.Quantity
		if err := deliveryRepo.UpdateLine(line); err != nil {
			return err
		}

		delivery.DriverID = &driver.ID
		// Re-read the full line set: lines may have been added out of band,
		// so completeness is never tracked with a counter.
		lines, err := deliveryRepo.ListLines(delivery.ID)
		if err != nil {
			return err
		}
		complete := true
		for _, l := range lines {
			if !l.Fulfilled() {
				complete = false
				break
			}
		}
		if complete && delivery.Status == entity.DeliveryStatusPreparation {
			delivery.Status = entity.DeliveryStatusEnRoute
		}
		return deliveryRepo.Update(delivery)
	})
}

// MarkDelivered closes an EN_ROUTE delivery. Only the assigned driver may
// call it; there is no reverse transition.
func (uc *UseCase) MarkDelivered(ctx context.Context, deliveryID, actorID string) error {
	delivery, err := uc.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		return err
	}
	if delivery == nil {
		return fmt.Errorf("%w: delivery %s", domain.ErrNotFound, deliveryID)
	}
	if delivery.DriverID == nil || *delivery.DriverID != actorID {
		return fmt.Errorf("%w: only the assigned driver can mark delivered", domain.ErrForbidden)
	}
	if delivery.Status != entity.DeliveryStatusEnRoute {
		return fmt.Errorf("%w: delivery is %s, not EN_ROUTE", domain.ErrConflict, delivery.Status)
	}
	delivery.Status = entity.DeliveryStatusDelivered
	return uc.deliveryRepo.Update(delivery)
}

// List returns deliveries filtered by status, requester and/or driver.
func (uc *UseCase) List(ctx context.Context, filter repository.DeliveryFilter, limit, offset int) ([]*entity.Delivery, error) {
	return uc.deliveryRepo.List(filter, limit, offset)
}

// Get returns one delivery with its lines.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Delivery, []*entity.DeliveryLine, error) {
	delivery, err := uc.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if delivery == nil {
		return nil, nil, fmt.Errorf("%w: delivery %s", domain.ErrNotFound, id)
	}
	lines, err := uc.deliveryRepo.ListLines(id)
	if err != nil {
		return nil, nil, err
	}
	return delivery, lines, nil
}
