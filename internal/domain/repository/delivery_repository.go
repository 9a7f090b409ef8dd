package repository

import "github.com/mokpokpo/supply-api/internal/domain/entity"

// DeliveryFilter narrows delivery listings. Nil fields are ignored.
type DeliveryFilter struct {
	Status       *string
	WholesalerID *string
	DriverID     *string
}

// DeliveryRepository defines the persistence port for Delivery headers
// and their lines.
type DeliveryRepository interface {
	Create(delivery *entity.Delivery) error
	GetByID(id string) (*entity.Delivery, error)
	Update(delivery *entity.Delivery) error
	List(filter DeliveryFilter, limit, offset int) ([]*entity.Delivery, error)

	CreateLine(line *entity.DeliveryLine) error
	GetLineByID(id string) (*entity.DeliveryLine, error)
	UpdateLine(line *entity.DeliveryLine) error
	ListLines(deliveryID string) ([]*entity.DeliveryLine, error)
}
