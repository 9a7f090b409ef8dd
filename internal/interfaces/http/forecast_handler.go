package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mokpokpo/supply-api/internal/application/dto"
	"github.com/mokpokpo/supply-api/internal/application/forecast"
)

// ForecastHandler exposes the demand forecast advisor.
type ForecastHandler struct {
	uc *forecast.UseCase
}

// NewForecastHandler builds the handler.
func NewForecastHandler(uc *forecast.UseCase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// Compute godoc
// @Summary      Recompute demand forecasts from EXIT movement history
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        horizon_days  query  int  false  "Days to project"  default(7)
// @Success      200  {array}  dto.ForecastResponse
// @Router       /api/forecasts/compute [post]
func (h *ForecastHandler) Compute(c *fiber.Ctx) error {
	horizonDays := c.QueryInt("horizon_days", forecast.DefaultHorizonDays)
	forecasts, err := h.uc.ComputeForecasts(c.Context(), horizonDays)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ForecastResponse, 0, len(forecasts))
	for _, f := range forecasts {
		out = append(out, dto.FromForecast(f))
	}
	return c.JSON(out)
}

// List godoc
// @Summary      List stored demand forecasts
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filter by product"
// @Success      200  {array}  dto.ForecastResponse
// @Router       /api/forecasts [get]
func (h *ForecastHandler) List(c *fiber.Ctx) error {
	page := pageFrom(c)
	var productID *string
	if v := c.Query("product_id"); v != "" {
		productID = &v
	}
	forecasts, err := h.uc.List(c.Context(), productID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ForecastResponse, 0, len(forecasts))
	for _, f := range forecasts {
		out = append(out, dto.FromForecast(f))
	}
	return c.JSON(out)
}
