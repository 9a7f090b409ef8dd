package repository

import "github.com/mokpokpo/supply-api/internal/domain/entity"

// DemandForecastRepository stores the forecast advisor's output.
// Upsert keeps one row per (product, period); inventory logic never reads it.
type DemandForecastRepository interface {
	Upsert(forecast *entity.DemandForecast) error
	List(productID *string, limit, offset int) ([]*entity.DemandForecast, error)
}
