package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mokpokpo/supply-api/internal/domain/entity"
)

// ProductResponse is the product shape returned by the API.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	Unit           string          `json:"unit"`
	ReferencePrice decimal.Decimal `json:"reference_price"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FromProduct maps the entity to its response shape.
func FromProduct(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID: p.ID, Name: p.Name, Kind: p.Kind, Unit: p.Unit,
		ReferencePrice: p.ReferencePrice, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// PriceHistoryResponse is one price history row.
type PriceHistoryResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Date      string          `json:"date"` // YYYY-MM-DD
}

// FromPriceHistory maps the entity to its response shape.
func FromPriceHistory(h *entity.PriceHistory) PriceHistoryResponse {
	return PriceHistoryResponse{
		ID: h.ID, ProductID: h.ProductID, Price: h.Price,
		Date: h.Date.Format("2006-01-02"),
	}
}

// WarehouseResponse is the warehouse shape returned by the API.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// FromWarehouse maps the entity to its response shape.
func FromWarehouse(w *entity.Warehouse) WarehouseResponse {
	return WarehouseResponse{ID: w.ID, Name: w.Name, Address: w.Address, CreatedAt: w.CreatedAt}
}

// LocationResponse is the storage-slot shape returned by the API.
type LocationResponse struct {
	ID          string `json:"id"`
	WarehouseID string `json:"warehouse_id"`
	Code        string `json:"code"`
}

// FromLocation maps the entity to its response shape.
func FromLocation(l *entity.Location) LocationResponse {
	return LocationResponse{ID: l.ID, WarehouseID: l.WarehouseID, Code: l.Code}
}

// LotResponse is the lot shape returned by the API.
type LotResponse struct {
	ID                string          `json:"id"`
	Code              string          `json:"code"`
	ProductID         string          `json:"product_id"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	ProductionDate    string          `json:"production_date"` // YYYY-MM-DD
	LocationID        *string         `json:"location_id"`
	CreatedAt         time.Time       `json:"created_at"`
}

// FromLot maps the entity to its response shape.
func FromLot(l *entity.Lot) LotResponse {
	return LotResponse{
		ID: l.ID, Code: l.Code, ProductID: l.ProductID,
		InitialQuantity: l.InitialQuantity, RemainingQuantity: l.RemainingQuantity,
		ProductionDate: l.ProductionDate.Format("2006-01-02"),
		LocationID:     l.LocationID, CreatedAt: l.CreatedAt,
	}
}

// MovementResponse is the stock movement shape returned by the API.
type MovementResponse struct {
	ID            string          `json:"id"`
	LotID         string          `json:"lot_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	SourceID      *string         `json:"source_id"`
	DestinationID *string         `json:"destination_id"`
	UserID        string          `json:"user_id"`
	Date          time.Time       `json:"date"`
}

// FromMovement maps the entity to its response shape.
func FromMovement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID: m.ID, LotID: m.LotID, Type: m.Type, Quantity: m.Quantity,
		SourceID: m.SourceID, DestinationID: m.DestinationID,
		UserID: m.UserID, Date: m.Date,
	}
}

// DeliveryLineResponse is one line of a delivery order.
type DeliveryLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	LotID     *string         `json:"lot_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Fulfilled bool            `json:"fulfilled"`
}

// FromDeliveryLine maps the entity to its response shape.
func FromDeliveryLine(l *entity.DeliveryLine) DeliveryLineResponse {
	return DeliveryLineResponse{
		ID: l.ID, ProductID: l.ProductID, LotID: l.LotID,
		Quantity: l.Quantity, Fulfilled: l.Fulfilled(),
	}
}

// DeliveryResponse is the delivery order shape returned by the API.
// Lines is populated only on the detail endpoint.
type DeliveryResponse struct {
	ID            string                 `json:"id"`
	Number        string                 `json:"number"`
	WholesalerID  string                 `json:"wholesaler_id"`
	DriverID      *string                `json:"driver_id"`
	Status        string                 `json:"status"`
	RequestedDate string                 `json:"requested_date"` // YYYY-MM-DD
	CreatedAt     time.Time              `json:"created_at"`
	Lines         []DeliveryLineResponse `json:"lines,omitempty"`
}

// FromDelivery maps the entity (and optional lines) to its response shape.
func FromDelivery(d *entity.Delivery, lines []*entity.DeliveryLine) DeliveryResponse {
	out := DeliveryResponse{
		ID: d.ID, Number: d.Number, WholesalerID: d.WholesalerID,
		DriverID: d.DriverID, Status: d.Status,
		RequestedDate: d.RequestedDate.Format("2006-01-02"),
		CreatedAt:     d.CreatedAt,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, FromDeliveryLine(l))
	}
	return out
}

// ForecastResponse is one demand forecast row.
type ForecastResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Period     string          `json:"period"` // YYYY-MM-DD
	Quantity   decimal.Decimal `json:"quantity"`
	ComputedAt time.Time       `json:"computed_at"`
}

// FromForecast maps the entity to its response shape.
func FromForecast(f *entity.DemandForecast) ForecastResponse {
	return ForecastResponse{
		ID: f.ID, ProductID: f.ProductID, Period: f.Period,
		Quantity: f.Quantity, ComputedAt: f.ComputedAt,
	}
}
