package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

const leadColumns = `id, lead_first_name, lead_last_name, lead_email, lead_phone, lead_message,
	lead_company, lead_website, lead_status, lead_converted, customer_id, converted_at, created_at, updated_at`

// LeadRepo implementación de LeadRepository (usable con pool o tx).
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Email, &l.Phone, &l.Message,
		&l.Company, &l.Website, &l.Status, &l.Converted, &l.CustomerID, &l.ConvertedAt,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste un nuevo lead.
func (r *LeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.Phone, lead.Message,
		lead.Company, lead.Website, lead.Status, lead.Converted, lead.CustomerID, lead.ConvertedAt,
		lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead por ID.
func (r *LeadRepo) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// GetByEmail busca por email sin distinguir mayúsculas.
func (r *LeadRepo) GetByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE lower(lead_email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead by email: %w", err)
	}
	return l, nil
}

// List lista leads, más recientes primero.
func (r *LeadRepo) List(ctx context.Context, limit, offset int) ([]*entity.Lead, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.q.Query(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables. lead_converted solo cambia vía MarkConverted.
func (r *LeadRepo) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET lead_first_name = $2, lead_last_name = $3, lead_email = $4, lead_phone = $5,
			lead_message = $6, lead_company = $7, lead_website = $8, lead_status = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		lead.ID, lead.FirstName, lead.LastName, lead.Email, lead.Phone,
		lead.Message, lead.Company, lead.Website, lead.Status, lead.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un lead por ID.
func (r *LeadRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkConverted marca el lead como convertido una única vez.
func (r *LeadRepo) MarkConverted(ctx context.Context, id, customerID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE leads SET lead_converted = TRUE, customer_id = $2, converted_at = $3, updated_at = $3
		WHERE id = $1 AND lead_converted = FALSE`, id, customerID, at)
	if err != nil {
		return fmt.Errorf("mark lead converted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var converted bool
		err := r.q.QueryRow(ctx, `SELECT lead_converted FROM leads WHERE id = $1`, id).Scan(&converted)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check lead converted: %w", err)
		}
		return domain.ErrAlreadyConverted
	}
	return nil
}
