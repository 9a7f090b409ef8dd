package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory is an append-only log of reference price changes,
// one entry per (product, date).
type PriceHistory struct {
	ID        string
	ProductID string
	Price     decimal.Decimal
	Date      time.Time // day granularity
}
