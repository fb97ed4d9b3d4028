package repository

import (
	"context"

	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
)

// NoteRepository puerto de persistencia para Note.
type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	GetByID(ctx context.Context, id string) (*entity.Note, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Note, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Note, error)
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id string) error
}
