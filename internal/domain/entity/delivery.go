package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery lifecycle. Transitions are forward-only:
// PREPARATION -> EN_ROUTE -> DELIVERED.
const (
	DeliveryStatusPreparation = "PREPARATION"
	DeliveryStatusEnRoute     = "EN_ROUTE"
	DeliveryStatusDelivered   = "DELIVERED"
)

// Delivery is an order header owned by a wholesaler, optionally assigned
// a driver once fulfillment starts.
type Delivery struct {
	ID            string
	Number        string // e.g. LIV-20260301120000
	WholesalerID  string
	DriverID      *string
	Status        string
	RequestedDate time.Time
	CreatedAt     time.Time
}

// DeliveryLine is one product/quantity request within a Delivery.
// LotID stays nil until a stock manager fulfills the line.
type DeliveryLine struct {
	ID         string
	DeliveryID string
	ProductID  string
	LotID      *string
	Quantity   decimal.Decimal
}

// Fulfilled reports whether the line has been bound to a lot.
func (l *DeliveryLine) Fulfilled() bool {
	return l.LotID != nil
}
