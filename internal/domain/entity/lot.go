package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot represents a physical batch of one product. InitialQuantity is the
// received-to-date total: it grows on ENTRY movements so that
// 0 <= RemainingQuantity <= InitialQuantity holds at all times.
//
// RemainingQuantity and LocationID are mutated only by the movement recorder
// inside a transaction; nothing else writes them.
type Lot struct {
	ID                string
	Code              string // unique, e.g. CAF-20260301120000
	ProductID         string
	InitialQuantity   decimal.Decimal
	RemainingQuantity decimal.Decimal
	ProductionDate    time.Time
	LocationID        *string // nil while in transit
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
