package inventory

import (
	"context"

	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// TxRunner executes a function inside one database transaction, handing it
// repositories bound to that transaction. Guarantees atomicity for the
// movement recorder: either the lot update and the movement row both
// commit, or neither does.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		lotRepo repository.LotRepository,
	) error) error
}
