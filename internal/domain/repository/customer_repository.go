package repository

import (
	"context"

	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para Customer.
// GetByName compara sin distinguir mayúsculas.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByName(ctx context.Context, name string) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*entity.CustomerStats, error)
}
