package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mokpokpo/supply-api/internal/application/catalog"
	"github.com/mokpokpo/supply-api/internal/application/dto"
)

// ProductHandler handles the product catalog and its price history.
type ProductHandler struct {
	uc *catalog.UseCase
}

// NewProductHandler builds the handler.
func NewProductHandler(uc *catalog.UseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Create a product (coffee or cocoa)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Product data"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	product, err := h.uc.CreateProduct(c.Context(), catalog.CreateProductInput{
		Name: in.Name, Kind: in.Kind, Unit: in.Unit, ReferencePrice: in.ReferencePrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromProduct(product))
}

// GetByID godoc
// @Summary      Get a product
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Product ID"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromProduct(product))
}

// List godoc
// @Summary      List products
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Limit"   default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := pageFrom(c)
	products, err := h.uc.ListProducts(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.FromProduct(p))
	}
	return c.JSON(out)
}

// UpdatePrice godoc
// @Summary      Set a new reference price (appends to price history)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Product ID"
// @Param        body  body  dto.UpdatePriceRequest  true  "Price and date (YYYY-MM-DD, empty = today)"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/price [post]
func (h *ProductHandler) UpdatePrice(c *fiber.Ctx) error {
	var in dto.UpdatePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	date := time.Now()
	if in.Date != "" {
		var err error
		if date, err = time.Parse("2006-01-02", in.Date); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date must be YYYY-MM-DD"})
		}
	}
	if err := h.uc.UpdateReferencePrice(c.Context(), c.Params("id"), in.Price, date); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPrices godoc
// @Summary      List a product's price history
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Product ID"
// @Success      200  {array}  dto.PriceHistoryResponse
// @Router       /api/products/{id}/prices [get]
func (h *ProductHandler) ListPrices(c *fiber.Ctx) error {
	page := pageFrom(c)
	history, err := h.uc.ListPriceHistory(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PriceHistoryResponse, 0, len(history))
	for _, row := range history {
		out = append(out, dto.FromPriceHistory(row))
	}
	return c.JSON(out)
}

// pageFrom reads limit/offset query params with defaults.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	return page
}
