package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandForecast is an advisory estimate of future demand for one product
// on one day. Write-only output of the forecast advisor; inventory logic
// never reads it.
type DemandForecast struct {
	ID         string
	ProductID  string
	Period     string // day label, YYYY-MM-DD
	Quantity   decimal.Decimal
	ComputedAt time.Time
}
