package dto

import "github.com/shopspring/decimal"

// CreateProductRequest is the body for POST /api/products.
type CreateProductRequest struct {
	Name           string          `json:"name"`
	Kind           string          `json:"kind"` // COFFEE | COCOA
	Unit           string          `json:"unit"` // kg, sac
	ReferencePrice decimal.Decimal `json:"reference_price"`
}

// UpdatePriceRequest is the body for POST /api/products/:id/price.
// Date is YYYY-MM-DD; empty means today.
type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price"`
	Date  string          `json:"date"`
}

// CreateWarehouseRequest is the body for POST /api/warehouses.
type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// CreateLocationRequest is the body for POST /api/warehouses/:id/locations.
type CreateLocationRequest struct {
	Code string `json:"code"` // e.g. E1-R2-N3
}
