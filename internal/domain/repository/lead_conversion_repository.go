package repository

import (
	"context"

	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
)

// LeadConversionRepository progreso persistido de la conversión de un lead.
type LeadConversionRepository interface {
	// GetOrCreate devuelve el registro del lead, creándolo en estado pending si no existe.
	GetOrCreate(ctx context.Context, leadID string) (*entity.LeadConversion, error)
	// GetByLeadID devuelve el registro del lead o nil si no existe.
	GetByLeadID(ctx context.Context, leadID string) (*entity.LeadConversion, error)
	// Save y Delete no tocan registros en estado completed.
	Save(ctx context.Context, conv *entity.LeadConversion) error
	Delete(ctx context.Context, leadID string) error
}
