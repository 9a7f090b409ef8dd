package delivery

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mokpokpo/supply-api/internal/domain"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// NoteLine is one delivery line enriched with display data for the note.
type NoteLine struct {
	ProductName string
	Unit        string
	LotCode     string
	Quantity    decimal.Decimal
}

// NotePDFGenerator renders the delivery note. Implemented by the maroto
// adapter in infrastructure.
type NotePDFGenerator interface {
	GenerateDeliveryNote(ctx context.Context, delivery *entity.Delivery,
		wholesaler, driver *entity.User, lines []NoteLine) ([]byte, error)
}

// NoteUseCase assembles and renders the delivery note (bordereau de
// livraison) handed to the driver.
type NoteUseCase struct {
	deliveryRepo repository.DeliveryRepository
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
	lotRepo      repository.LotRepository
	generator    NotePDFGenerator
}

// NewNoteUseCase builds the use case.
func NewNoteUseCase(
	deliveryRepo repository.DeliveryRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	lotRepo repository.LotRepository,
	generator NotePDFGenerator,
) *NoteUseCase {
	return &NoteUseCase{
		deliveryRepo: deliveryRepo,
		userRepo:     userRepo,
		productRepo:  productRepo,
		lotRepo:      lotRepo,
		generator:    generator,
	}
}

// Generate renders the note for a delivery that has left preparation.
func (uc *NoteUseCase) Generate(ctx context.Context, deliveryID string) ([]byte, error) {
	delivery, err := uc.deliveryRepo.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, fmt.Errorf("%w: delivery %s", domain.ErrNotFound, deliveryID)
	}
	if delivery.Status == entity.DeliveryStatusPreparation {
		return nil, fmt.Errorf("%w: delivery still in preparation", domain.ErrConflict)
	}

	wholesaler, err := uc.userRepo.GetByID(delivery.WholesalerID)
	if err != nil {
		return nil, err
	}
	var driver *entity.User
	if delivery.DriverID != nil {
		if driver, err = uc.userRepo.GetByID(*delivery.DriverID); err != nil {
			return nil, err
		}
	}

	lines, err := uc.deliveryRepo.ListLines(deliveryID)
	if err != nil {
		return nil, err
	}
	noteLines := make([]NoteLine, 0, len(lines))
	for _, l := range lines {
		nl := NoteLine{Quantity: l.Quantity}
		if product, err := uc.productRepo.GetByID(l.ProductID); err != nil {
			return nil, err
		} else if product != nil {
			nl.ProductName = product.Name
			nl.Unit = product.Unit
		}
		if l.LotID != nil {
			if lot, err := uc.lotRepo.GetByID(*l.LotID); err != nil {
				return nil, err
			} else if lot != nil {
				nl.LotCode = lot.Code
			}
		}
		noteLines = append(noteLines, nl)
	}

	return uc.generator.GenerateDeliveryNote(ctx, delivery, wholesaler, driver, noteLines)
}
