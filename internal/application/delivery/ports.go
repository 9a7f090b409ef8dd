package delivery

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// TxRunner executes a function inside one database transaction with the
// repositories the delivery workflow needs bound to that transaction.
type TxRunner interface {
	RunDelivery(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		lotRepo repository.LotRepository,
		deliveryRepo repository.DeliveryRepository,
	) error) error
}

// MovementRecorder debits a lot and appends the matching EXIT movement
// inside the caller's transaction. Implemented by inventory.UseCase;
// fulfillment never touches lot balances except through it.
type MovementRecorder interface {
	RecordExitInTx(
		movRepo repository.StockMovementRepository,
		lotRepo repository.LotRepository,
		lot *entity.Lot,
		quantity decimal.Decimal,
		actorID string,
		now time.Time,
	) error
}
