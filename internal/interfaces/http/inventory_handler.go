package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mokpokpo/supply-api/internal/application/dto"
	"github.com/mokpokpo/supply-api/internal/application/inventory"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// InventoryHandler handles lots and stock movements.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler builds the handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateLot godoc
// @Summary      Register a new lot
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "Lot data"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *InventoryHandler) CreateLot(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	productionDate, err := time.Parse("2006-01-02", in.ProductionDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "production_date must be YYYY-MM-DD"})
	}
	lot, err := h.uc.CreateLot(c.Context(), inventory.CreateLotInput{
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		Quantity:       in.Quantity,
		ProductionDate: productionDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromLot(lot))
}

// GetLot godoc
// @Summary      Get a lot
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Lot ID"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *InventoryHandler) GetLot(c *fiber.Ctx) error {
	lot, err := h.uc.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromLot(lot))
}

// ListLots godoc
// @Summary      List lots
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Filter by product"
// @Param        location_id  query  string  false  "Filter by location"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	page := pageFrom(c)
	var filter repository.LotFilter
	if v := c.Query("product_id"); v != "" {
		filter.ProductID = &v
	}
	if v := c.Query("location_id"); v != "" {
		filter.LocationID = &v
	}
	lots, err := h.uc.ListLots(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.FromLot(l))
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Record a stock movement (ENTRY, EXIT or TRANSFER)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movement data"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	movement, err := h.uc.RecordMovement(c.Context(), inventory.MovementInput{
		LotID:         in.LotID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		SourceID:      in.SourceID,
		DestinationID: in.DestinationID,
		ActorID:       GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(movement))
}

// ListMovements godoc
// @Summary      List stock movements
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        lot_id  query  string  false  "Filter by lot"
// @Param        from    query  string  false  "From date (YYYY-MM-DD)"
// @Param        to      query  string  false  "To date (YYYY-MM-DD)"
// @Success      200     {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	page := pageFrom(c)
	var from, to *time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from must be YYYY-MM-DD"})
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to must be YYYY-MM-DD"})
		}
		to = &t
	}
	movements, err := h.uc.ListMovements(c.Context(), c.Query("lot_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.FromMovement(m))
	}
	return c.JSON(out)
}
