package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

const contactSelect = `
	SELECT ct.id, ct.contact_first_name, ct.contact_last_name, ct.contact_email, ct.customer_id,
	       COALESCE(c.customer_name, ''), ct.created_at, ct.updated_at
	FROM contacts ct
	LEFT JOIN customers c ON c.id = ct.customer_id`

// ContactRepo implementación de ContactRepository (usable con pool o tx).
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

func scanContact(row pgx.Row) (*entity.Contact, error) {
	var c entity.Contact
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.CustomerID,
		&c.CustomerName, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un contacto. Un customer_id inexistente se reporta como ErrNotFound.
func (r *ContactRepo) Create(ctx context.Context, contact *entity.Contact) error {
	query := `
		INSERT INTO contacts (id, contact_first_name, contact_last_name, contact_email, customer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		contact.ID, contact.FirstName, contact.LastName, contact.Email, contact.CustomerID,
		contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID obtiene un contacto por ID.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	c, err := scanContact(r.q.QueryRow(ctx, contactSelect+` WHERE ct.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// GetByEmail obtiene un contacto por email sin distinguir mayúsculas.
func (r *ContactRepo) GetByEmail(ctx context.Context, email string) (*entity.Contact, error) {
	c, err := scanContact(r.q.QueryRow(ctx, contactSelect+` WHERE lower(ct.contact_email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact by email: %w", err)
	}
	return c, nil
}

// List lista contactos con paginación.
func (r *ContactRepo) List(ctx context.Context, limit, offset int) ([]*entity.Contact, error) {
	limit, offset = clampPage(limit, offset)
	return r.query(ctx, contactSelect+` ORDER BY ct.contact_last_name, ct.contact_first_name LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByCustomer contactos de un cliente.
func (r *ContactRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Contact, error) {
	return r.query(ctx, contactSelect+` WHERE ct.customer_id = $1 ORDER BY ct.contact_last_name, ct.contact_first_name`, customerID)
}

func (r *ContactRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Contact, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza un contacto.
func (r *ContactRepo) Update(ctx context.Context, contact *entity.Contact) error {
	query := `
		UPDATE contacts SET contact_first_name = $2, contact_last_name = $3, contact_email = $4,
			customer_id = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		contact.ID, contact.FirstName, contact.LastName, contact.Email, contact.CustomerID, contact.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un contacto por ID.
func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
