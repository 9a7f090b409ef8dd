package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock movement types.
const (
	MovementTypeEntry    = "ENTRY"    // stock receipt into a location
	MovementTypeExit     = "EXIT"     // consumption / shipment out
	MovementTypeTransfer = "TRANSFER" // relocation between locations
)

// ValidMovementType reports whether t is ENTRY, EXIT or TRANSFER.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeTransfer:
		return true
	}
	return false
}

// StockMovement is an immutable audit record of an inventory change.
// Movements are append-only: the persistence port exposes no update or
// delete, and lot balances change only together with a movement row.
//
// Location rules per type, enforced before any mutation:
//   - ENTRY:    no source; destination optional.
//   - EXIT:     no destination; source is the lot's current location.
//   - TRANSFER: source and destination required and distinct.
type StockMovement struct {
	ID            string
	LotID         string
	Type          string
	Quantity      decimal.Decimal // always positive; sign is implied by Type
	SourceID      *string         // location
	DestinationID *string         // location
	UserID        string          // acting user
	Date          time.Time       // server-assigned
}
