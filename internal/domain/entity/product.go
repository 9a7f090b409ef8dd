package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product kinds. The cooperative trades two commodities.
const (
	ProductKindCoffee = "COFFEE"
	ProductKindCocoa  = "COCOA"
)

// ValidProductKind reports whether kind is COFFEE or COCOA.
func ValidProductKind(kind string) bool {
	return kind == ProductKindCoffee || kind == ProductKindCocoa
}

// Product represents a tradeable commodity. Immutable once referenced by
// historical records, except ReferencePrice which is tracked in PriceHistory.
type Product struct {
	ID             string
	Name           string
	Kind           string          // COFFEE, COCOA
	Unit           string          // kg, sac
	ReferencePrice decimal.Decimal // current reference price; history is append-only
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
