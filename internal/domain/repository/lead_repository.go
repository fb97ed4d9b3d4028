package repository

import (
	"context"
	"time"

	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
)

// LeadRepository puerto de persistencia para Lead.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	GetByEmail(ctx context.Context, email string) (*entity.Lead, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	Delete(ctx context.Context, id string) error
	// MarkConverted solo actualiza si el lead no estaba convertido; si no, domain.ErrAlreadyConverted.
	MarkConverted(ctx context.Context, id, customerID string, at time.Time) error
}
