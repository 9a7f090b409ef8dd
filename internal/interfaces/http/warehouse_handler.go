package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mokpokpo/supply-api/internal/application/catalog"
	"github.com/mokpokpo/supply-api/internal/application/dto"
)

// WarehouseHandler handles warehouses and their storage locations.
type WarehouseHandler struct {
	uc *catalog.UseCase
}

// NewWarehouseHandler builds the handler.
func NewWarehouseHandler(uc *catalog.UseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Create godoc
// @Summary      Create a warehouse
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "Warehouse data"
// @Success      201   {object}  dto.WarehouseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/warehouses [post]
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	warehouse, err := h.uc.CreateWarehouse(c.Context(), in.Name, in.Address)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromWarehouse(warehouse))
}

// GetByID godoc
// @Summary      Get a warehouse
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Warehouse ID"
// @Success      200  {object}  dto.WarehouseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	warehouse, err := h.uc.GetWarehouse(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromWarehouse(warehouse))
}

// List godoc
// @Summary      List warehouses
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WarehouseResponse
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	page := pageFrom(c)
	warehouses, err := h.uc.ListWarehouses(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		out = append(out, dto.FromWarehouse(w))
	}
	return c.JSON(out)
}

// CreateLocation godoc
// @Summary      Create a storage location within a warehouse
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Warehouse ID"
// @Param        body  body  dto.CreateLocationRequest  true  "Location code, e.g. E1-R2-N3"
// @Success      201   {object}  dto.LocationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/locations [post]
func (h *WarehouseHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	location, err := h.uc.CreateLocation(c.Context(), c.Params("id"), in.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromLocation(location))
}

// ListLocations godoc
// @Summary      List a warehouse's storage locations
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Warehouse ID"
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/warehouses/{id}/locations [get]
func (h *WarehouseHandler) ListLocations(c *fiber.Ctx) error {
	page := pageFrom(c)
	locations, err := h.uc.ListLocations(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, dto.FromLocation(l))
	}
	return c.JSON(out)
}
