package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
)

var _ repository.LeadConversionRepository = (*LeadConversionRepo)(nil)

// LeadConversionRepo progreso de conversiones sobre la tabla lead_conversions.
type LeadConversionRepo struct {
	q Querier
}

func NewLeadConversionRepository(q Querier) *LeadConversionRepo {
	return &LeadConversionRepo{q: q}
}

// GetOrCreate inserta el registro pending si no existe y lo devuelve.
func (r *LeadConversionRepo) GetOrCreate(ctx context.Context, leadID string) (*entity.LeadConversion, error) {
	now := time.Now()
	if _, err := r.q.Exec(ctx, `
		INSERT INTO lead_conversions (lead_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (lead_id) DO NOTHING`, leadID, entity.ConversionPending, now); err != nil {
		return nil, fmt.Errorf("insert lead conversion: %w", err)
	}
	c, err := r.GetByLeadID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("get lead conversion: %w", pgx.ErrNoRows)
	}
	return c, nil
}

// GetByLeadID lee el registro actual; nil si no existe.
func (r *LeadConversionRepo) GetByLeadID(ctx context.Context, leadID string) (*entity.LeadConversion, error) {
	var c entity.LeadConversion
	err := r.q.QueryRow(ctx, `
		SELECT lead_id, zammad_organization_id, zammad_user_id, customer_id, contact_id, status, created_at, updated_at
		FROM lead_conversions WHERE lead_id = $1`, leadID).Scan(
		&c.LeadID, &c.ZammadOrganizationID, &c.ZammadUserID, &c.CustomerID, &c.ContactID,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lead conversion: %w", err)
	}
	return &c, nil
}

// Save persiste el progreso actual. Un registro completed no se vuelve a escribir.
func (r *LeadConversionRepo) Save(ctx context.Context, c *entity.LeadConversion) error {
	_, err := r.q.Exec(ctx, `
		UPDATE lead_conversions SET zammad_organization_id = $2, zammad_user_id = $3, customer_id = $4,
			contact_id = $5, status = $6, updated_at = $7
		WHERE lead_id = $1 AND status <> $8`,
		c.LeadID, c.ZammadOrganizationID, c.ZammadUserID, c.CustomerID, c.ContactID, c.Status, c.UpdatedAt, entity.ConversionCompleted,
	)
	if err != nil {
		return fmt.Errorf("save lead conversion: %w", err)
	}
	return nil
}

// Delete descarta el progreso pendiente (tras compensar los pasos externos).
func (r *LeadConversionRepo) Delete(ctx context.Context, leadID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM lead_conversions WHERE lead_id = $1 AND status <> $2`,
		leadID, entity.ConversionCompleted); err != nil {
		return fmt.Errorf("delete lead conversion: %w", err)
	}
	return nil
}
