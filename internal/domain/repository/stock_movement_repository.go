package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mokpokpo/supply-api/internal/domain/entity"
)

// DailyExit is the total EXIT quantity for one product on one day.
// Read-only input for the forecast advisor.
type DailyExit struct {
	ProductID string
	Day       time.Time
	Quantity  decimal.Decimal
}

// StockMovementRepository defines the persistence port for movements.
// Append-only by contract: there is no update or delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByLot(lotID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// DailyExitTotals aggregates EXIT quantities per product per day over
	// the whole recorded history, oldest first.
	DailyExitTotals() ([]DailyExit, error)
}
