package dto

import "github.com/shopspring/decimal"

// CreateOrderRequest is the body for POST /api/deliveries.
// RequestedDate is YYYY-MM-DD.
type CreateOrderRequest struct {
	ProductID     string          `json:"product_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	RequestedDate string          `json:"requested_date"`
}

// AddLineRequest is the body for POST /api/deliveries/:id/lines.
type AddLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// FulfillLineRequest is the body for POST /api/deliveries/lines/:id/fulfill.
type FulfillLineRequest struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
	DriverID string          `json:"driver_id"`
}
