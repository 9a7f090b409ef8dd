package dto

import "github.com/shopspring/decimal"

// CreateLotRequest is the body for POST /api/lots.
// ProductionDate is YYYY-MM-DD.
type CreateLotRequest struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	ProductionDate string          `json:"production_date"`
}

// RegisterMovementRequest is the body for POST /api/inventory/movements.
// Source/destination follow the per-type rules: ENTRY has no source, EXIT
// has no destination, TRANSFER needs both.
type RegisterMovementRequest struct {
	LotID         string          `json:"lot_id"`
	Type          string          `json:"type"` // ENTRY | EXIT | TRANSFER
	Quantity      decimal.Decimal `json:"quantity"`
	SourceID      *string         `json:"source_id"`
	DestinationID *string         `json:"destination_id"`
}
