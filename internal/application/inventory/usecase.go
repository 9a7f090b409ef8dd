package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// UseCase is the lot ledger and movement recorder. It is the only write
// path for lot balances: every quantity or location change happens inside
// a transaction with the lot row locked, paired with an appended movement.
type UseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	lotRepo      repository.LotRepository
	movRepo      repository.StockMovementRepository
}

// NewUseCase builds the use case.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	lotRepo repository.LotRepository,
	movRepo repository.StockMovementRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		lotRepo:      lotRepo,
		movRepo:      movRepo,
	}
}

// CreateLotInput is the input for CreateLot.
type CreateLotInput struct {
	ProductID      string
	LocationID     string
	Quantity       decimal.Decimal
	ProductionDate time.Time
}

// CreateLot registers a new batch. The lot code is generated from the
// product name prefix and a timestamp; remaining quantity starts equal to
// the initial quantity.
func (uc *UseCase) CreateLot(ctx context.Context, input CreateLotInput) (*entity.Lot, error) {
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
	location, err := uc.locationRepo.GetByID(input.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, fmt.Errorf("%w: location %s", domain.ErrNotFound, input.LocationID)
	}

	now := time.Now()
	lot := &entity.Lot{
		ID:                uuid.New().String(),
		Code:              lotCode(product.Name, now),
		ProductID:         product.ID,
		InitialQuantity:   input.Quantity,
		RemainingQuantity: input.Quantity,
		ProductionDate:    input.ProductionDate,
		LocationID:        &location.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.lotRepo.Create(lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// lotCode builds a lot code like CAF-20260301120000.
func lotCode(productName string, now time.Time) string {
	prefix := strings.ToUpper(productName)
	if r := []rune(prefix); len(r) > 3 {
		prefix = string(r[:3])
	}
	return fmt.Sprintf("%s-%s", prefix, now.Format("20060102150405"))
}

// MovementInput is the input for RecordMovement.
type MovementInput struct {
	LotID         string
	Type          string // ENTRY, EXIT, TRANSFER
	Quantity      decimal.Decimal
	SourceID      *string // location; EXIT defaults to the lot's current one
	DestinationID *string // location
	ActorID       string
}

// validateMovement checks the type/location rules as a pure function of the
// input, before any read or write is attempted.
func validateMovement(input MovementInput) error {
	if input.LotID == "" {
		return fmt.Errorf("%w: lot id required", domain.ErrInvalidInput)
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	switch input.Type {
	case entity.MovementTypeEntry:
		if input.SourceID != nil {
			return fmt.Errorf("%w: ENTRY must not have a source location", domain.ErrInvalidInput)
		}
	case entity.MovementTypeExit:
		if input.DestinationID != nil {
			return fmt.Errorf("%w: EXIT must not have a destination location", domain.ErrInvalidInput)
		}
	case entity.MovementTypeTransfer:
		if input.SourceID == nil || input.DestinationID == nil {
			return fmt.Errorf("%w: TRANSFER requires source and destination", domain.ErrInvalidInput)
		}
		if *input.SourceID == *input.DestinationID {
			return fmt.Errorf("%w: TRANSFER source and destination must differ", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown movement type %q", domain.ErrInvalidInput, input.Type)
	}
	return nil
}

// RecordMovement validates the movement, then applies it atomically: lock
// the lot row, adjust its balance and location per type, append the
// movement with a server-assigned timestamp, commit. Any failure rolls the
// whole unit back.
//
// ENTRY grows both remaining and initial quantity: initial is the lot's
// received-to-date total, so 0 <= remaining <= initial stays true.
func (uc *UseCase) RecordMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if err := validateMovement(input); err != nil {
		return nil, err
	}

	// Referenced locations are reference data; resolve them before the tx.
	for _, locID := range []*string{input.SourceID, input.DestinationID} {
		if locID == nil {
			continue
		}
		loc, err := uc.locationRepo.GetByID(*locID)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			return nil, fmt.Errorf("%w: location %s", domain.ErrNotFound, *locID)
		}
	}

	now := time.Now()
	var movement *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		lotRepo repository.LotRepository,
	) error {
		lot, err := lotRepo.GetForUpdate(input.LotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return fmt.Errorf("%w: lot %s", domain.ErrNotFound, input.LotID)
		}

		source := input.SourceID
		switch input.Type {
		case entity.MovementTypeEntry:
			lot.InitialQuantity = lot.InitialQuantity.Add(input.Quantity)
			lot.RemainingQuantity = lot.RemainingQuantity.Add(input.Quantity)
			if input.DestinationID != nil {
				lot.LocationID = input.DestinationID
			}
		case entity.MovementTypeExit:
			if source == nil {
				source = lot.LocationID
			} else if lot.LocationID != nil && *source != *lot.LocationID {
				return fmt.Errorf("%w: EXIT source does not match lot location", domain.ErrInvalidInput)
			}
			if err := debit(lot, input.Quantity); err != nil {
				return err
			}
		case entity.MovementTypeTransfer:
			if lot.LocationID == nil || *input.SourceID != *lot.LocationID {
				return fmt.Errorf("%w: TRANSFER source does not match lot location", domain.ErrInvalidInput)
			}
			// A transfer relocates the lot; the total does not change.
			lot.LocationID = input.DestinationID
		}

		lot.UpdatedAt = now
		if err := lotRepo.Update(lot); err != nil {
			return err
		}

		movement = &entity.StockMovement{
			ID:            uuid.New().String(),
			LotID:         lot.ID,
			Type:          input.Type,
			Quantity:      input.Quantity,
			SourceID:      source,
			DestinationID: input.DestinationID,
			UserID:        input.ActorID,
			Date:          now,
		}
		return movRepo.Create(movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// RecordExitInTx debits a lot and appends the matching EXIT movement using
// repositories already bound to the caller's transaction. Implements the
// delivery package's MovementRecorder so fulfillment shares the movement
// recorder's audit discipline instead of mutating lots directly.
//
// The caller is expected to have loaded the lot with GetForUpdate; the lot
// passed in is mutated and persisted here.
func (uc *UseCase) RecordExitInTx(
	movRepo repository.StockMovementRepository,
	lotRepo repository.LotRepository,
	lot *entity.Lot,
	quantity decimal.Decimal,
	actorID string,
	now time.Time,
) error {
	if err := debit(lot, quantity); err != nil {
		return err
	}
	lot.UpdatedAt = now
	if err := lotRepo.Update(lot); err != nil {
		return err
	}
	movement := &entity.StockMovement{
		ID:       uuid.New().String(),
		LotID:    lot.ID,
		Type:     entity.MovementTypeExit,
		Quantity: quantity,
		SourceID: lot.LocationID,
		UserID:   actorID,
		Date:     now,
	}
	return movRepo.Create(movement)
}

// debit decrements a lot's remaining quantity. Private: a debit is only
// legitimate alongside a movement row in the same transaction.
func debit(lot *entity.Lot, quantity decimal.Decimal) error {
	if !quantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	if lot.RemainingQuantity.LessThan(quantity) {
		return fmt.Errorf("%w: lot %s has %s remaining", domain.ErrInsufficientStock,
			lot.Code, lot.RemainingQuantity)
	}
	lot.RemainingQuantity = lot.RemainingQuantity.Sub(quantity)
	return nil
}

// ListLots returns lots, optionally filtered by product and location.
func (uc *UseCase) ListLots(ctx context.Context, filter repository.LotFilter, limit, offset int) ([]*entity.Lot, error) {
	return uc.lotRepo.List(filter, limit, offset)
}

// GetLot returns one lot by ID.
func (uc *UseCase) GetLot(ctx context.Context, id string) (*entity.Lot, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("%w: lot %s", domain.ErrNotFound, id)
	}
	return lot, nil
}

// ListMovements returns movements, optionally scoped to a lot and date range.
func (uc *UseCase) ListMovements(ctx context.Context, lotID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if lotID != "" {
		return uc.movRepo.ListByLot(lotID, from, to, limit, offset)
	}
	return uc.movRepo.List(from, to, limit, offset)
}
