package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appdelivery "github.com/mokpokpo/supply-api/internal/application/delivery"
	"github.com/mokpokpo/supply-api/internal/application/dto"
	"github.com/mokpokpo/supply-api/internal/domain/entity"
	"github.com/mokpokpo/supply-api/internal/domain/repository"
)

// DeliveryHandler handles the delivery order workflow.
type DeliveryHandler struct {
	uc     *appdelivery.UseCase
	noteUC *appdelivery.NoteUseCase
}

// NewDeliveryHandler builds the handler.
func NewDeliveryHandler(uc *appdelivery.UseCase, noteUC *appdelivery.NoteUseCase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc, noteUC: noteUC}
}

// Create godoc
// @Summary      Open a delivery order (one line, status PREPARATION)
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Order data"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	requestedDate, err := time.Parse("2006-01-02", in.RequestedDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "requested_date must be YYYY-MM-DD"})
	}
	delivery, err := h.uc.CreateOrder(c.Context(), appdelivery.CreateOrderInput{
		WholesalerID:  GetUserID(c),
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		RequestedDate: requestedDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromDelivery(delivery, nil))
}

// List godoc
// @Summary      List delivery orders
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "PREPARATION | EN_ROUTE | DELIVERED"
// @Param        driver_id  query  string  false  "Filter by driver"
// @Success      200  {array}  dto.DeliveryResponse
// @Router       /api/deliveries [get]
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	page := pageFrom(c)
	var filter repository.DeliveryFilter
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("driver_id"); v != "" {
		filter.DriverID = &v
	}
	// Wholesalers only see their own orders.
	if GetRole(c) == entity.RoleWholesaler {
		id := GetUserID(c)
		filter.WholesalerID = &id
	}
	deliveries, err := h.uc.List(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, dto.FromDelivery(d, nil))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Get a delivery order with its lines
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Delivery ID"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	delivery, lines, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromDelivery(delivery, lines))
}

// AddLine godoc
// @Summary      Add a line to a delivery order
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Delivery ID"
// @Param        body  body  dto.AddLineRequest  true  "Line data"
// @Success      201   {object}  dto.DeliveryLineResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/lines [post]
func (h *DeliveryHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	line, err := h.uc.AddLine(c.Context(), c.Params("id"), in.ProductID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromDeliveryLine(line))
}

// FulfillLine godoc
// @Summary      Fulfill a line: bind a lot and a driver, debit stock
// @Tags         deliveries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Line ID"
// @Param        body  body  dto.FulfillLineRequest  true  "Lot, quantity and driver"
// @Success      204
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/deliveries/lines/{id}/fulfill [post]
func (h *DeliveryHandler) FulfillLine(c *fiber.Ctx) error {
	var in dto.FulfillLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	err := h.uc.FulfillLine(c.Context(), appdelivery.FulfillInput{
		LineID:   c.Params("id"),
		LotID:    in.LotID,
		Quantity: in.Quantity,
		DriverID: in.DriverID,
		ActorID:  GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkDelivered godoc
// @Summary      Mark a delivery as delivered (assigned driver only)
// @Tags         deliveries
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Delivery ID"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/delivered [post]
func (h *DeliveryHandler) MarkDelivered(c *fiber.Ctx) error {
	if err := h.uc.MarkDelivered(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Note godoc
// @Summary      Download the delivery note PDF (bordereau de livraison)
// @Tags         deliveries
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "Delivery ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deliveries/{id}/note [get]
func (h *DeliveryHandler) Note(c *fiber.Ctx) error {
	pdf, err := h.noteUC.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="bordereau.pdf"`)
	return c.Send(pdf)
}
