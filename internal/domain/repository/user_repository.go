package repository

import "github.com/mokpokpo/supply-api/internal/domain/entity"

// UserRepository defines the persistence port for User.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	ListByRole(role string, limit, offset int) ([]*entity.User, error)
	Update(user *entity.User) error
}
