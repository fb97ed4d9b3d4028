package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
	"github.com/jhoicas/andromeda-crm/pkg/normalize"
)

// ContactUseCase reglas de negocio para contactos de clientes.
type ContactUseCase struct {
	repo         repository.ContactRepository
	customerRepo repository.CustomerRepository
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(repo repository.ContactRepository, customerRepo repository.CustomerRepository) *ContactUseCase {
	return &ContactUseCase{repo: repo, customerRepo: customerRepo}
}

// Create crea un contacto de un cliente existente. Email único y en minúsculas.
func (uc *ContactUseCase) Create(ctx context.Context, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	email := normalize.Email(in.Email)
	if err := firstErr(
		required("contact_first_name", in.FirstName),
		required("contact_last_name", in.LastName),
		validEmail("contact_email", email),
		required("customer_id", in.CustomerID),
	); err != nil {
		return nil, err
	}
	customer, err := uc.customer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("Contact")
	}
	now := time.Now()
	contact := &entity.Contact{
		ID:           uuid.New().String(),
		FirstName:    normalize.Text(in.FirstName),
		LastName:     normalize.Text(in.LastName),
		Email:        email,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, contact); err != nil {
		return nil, uc.writeErr(err)
	}
	return ToContactResponse(contact), nil
}

// GetByID obtiene un contacto.
func (uc *ContactUseCase) GetByID(ctx context.Context, id string) (*dto.ContactResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("Contact")
	}
	return ToContactResponse(c), nil
}

// List lista contactos; con customerID filtra por cliente.
func (uc *ContactUseCase) List(ctx context.Context, customerID string, page dto.PageRequest) ([]*dto.ContactResponse, error) {
	var (
		list []*entity.Contact
		err  error
	)
	if customerID != "" {
		if _, err := uc.customer(ctx, customerID); err != nil {
			return nil, err
		}
		list, err = uc.repo.ListByCustomer(ctx, customerID)
	} else {
		page.DefaultPage()
		list, err = uc.repo.List(ctx, page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ContactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToContactResponse(c))
	}
	return out, nil
}

// Update aplica solo los campos enviados.
func (uc *ContactUseCase) Update(ctx context.Context, id string, in dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("Contact")
	}
	if in.Email != nil {
		email := normalize.Email(*in.Email)
		if err := validEmail("contact_email", email); err != nil {
			return nil, err
		}
		if email != c.Email {
			other, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != c.ID {
				return nil, domain.Conflict("Contact")
			}
		}
		c.Email = email
	}
	if in.CustomerID != nil && *in.CustomerID != c.CustomerID {
		customer, err := uc.customer(ctx, *in.CustomerID)
		if err != nil {
			return nil, err
		}
		c.CustomerID = customer.ID
		c.CustomerName = customer.Name
	}
	applyString(&c.FirstName, in.FirstName)
	applyString(&c.LastName, in.LastName)
	if err := firstErr(
		required("contact_first_name", c.FirstName),
		required("contact_last_name", c.LastName),
	); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, uc.writeErr(err)
	}
	return ToContactResponse(c), nil
}

// Delete elimina un contacto.
func (uc *ContactUseCase) Delete(ctx context.Context, id string) error {
	return mapRepoErr(uc.repo.Delete(ctx, id), "Contact")
}

func (uc *ContactUseCase) customer(ctx context.Context, id string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.NotFound("Customer")
	}
	return customer, nil
}

// writeErr: en escrituras el único ErrNotFound posible por FK es el cliente borrado en paralelo.
func (uc *ContactUseCase) writeErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("Customer")
	}
	return mapRepoErr(err, "Contact")
}

// ToContactResponse mapea la entidad a la respuesta HTTP.
func ToContactResponse(c *entity.Contact) *dto.ContactResponse {
	return &dto.ContactResponse{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		CustomerID:   c.CustomerID,
		CustomerName: c.CustomerName,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
