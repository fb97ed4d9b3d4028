package repository

import (
	"context"

	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
)

// ContactRepository puerto de persistencia para Contact.
type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	GetByEmail(ctx context.Context, email string) (*entity.Contact, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Contact, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Contact, error)
	Update(ctx context.Context, contact *entity.Contact) error
	Delete(ctx context.Context, id string) error
}
