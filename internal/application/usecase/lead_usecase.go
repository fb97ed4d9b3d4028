package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
	"github.com/jhoicas/andromeda-crm/pkg/normalize"
)

// LeadUseCase reglas de negocio para leads.
type LeadUseCase struct {
	repo repository.LeadRepository
}

// NewLeadUseCase construye el caso de uso con el puerto de persistencia.
func NewLeadUseCase(repo repository.LeadRepository) *LeadUseCase {
	return &LeadUseCase{repo: repo}
}

// Create registra un lead nuevo. El email es la clave natural: repetido = conflicto.
func (uc *LeadUseCase) Create(ctx context.Context, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	email := normalize.Email(in.Email)
	if err := firstErr(
		required("lead_first_name", in.FirstName),
		required("lead_last_name", in.LastName),
		validEmail("lead_email", email),
	); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("Lead")
	}
	status := normalize.Text(in.Status)
	if status == "" {
		status = entity.LeadStatusNew
	}
	now := time.Now()
	lead := &entity.Lead{
		ID:        uuid.New().String(),
		FirstName: normalize.Text(in.FirstName),
		LastName:  normalize.Text(in.LastName),
		Email:     email,
		Phone:     normalize.Text(in.Phone),
		Message:   normalize.Text(in.Message),
		Company:   normalize.Text(in.Company),
		Website:   normalize.Text(in.Website),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, lead); err != nil {
		return nil, mapRepoErr(err, "Lead")
	}
	return ToLeadResponse(lead), nil
}

// GetByID obtiene un lead por ID.
func (uc *LeadUseCase) GetByID(ctx context.Context, id string) (*dto.LeadResponse, error) {
	lead, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.NotFound("Lead")
	}
	return ToLeadResponse(lead), nil
}

// GetByEmail busca un lead por email sin distinguir mayúsculas.
func (uc *LeadUseCase) GetByEmail(ctx context.Context, email string) (*dto.LeadResponse, error) {
	lead, err := uc.repo.GetByEmail(ctx, normalize.Email(email))
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.NotFound("Lead")
	}
	return ToLeadResponse(lead), nil
}

// List lista leads.
func (uc *LeadUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.LeadResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LeadResponse, 0, len(list))
	for _, l := range list {
		out = append(out, ToLeadResponse(l))
	}
	return out, nil
}

// Update aplica solo los campos enviados.
func (uc *LeadUseCase) Update(ctx context.Context, id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	lead, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.NotFound("Lead")
	}
	if in.Email != nil {
		email := normalize.Email(*in.Email)
		if err := validEmail("lead_email", email); err != nil {
			return nil, err
		}
		if email != lead.Email {
			other, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != lead.ID {
				return nil, domain.Conflict("Lead")
			}
		}
		lead.Email = email
	}
	applyString(&lead.FirstName, in.FirstName)
	applyString(&lead.LastName, in.LastName)
	applyString(&lead.Phone, in.Phone)
	applyString(&lead.Message, in.Message)
	applyString(&lead.Company, in.Company)
	applyString(&lead.Website, in.Website)
	applyString(&lead.Status, in.Status)
	if err := firstErr(
		required("lead_first_name", lead.FirstName),
		required("lead_last_name", lead.LastName),
		required("lead_status", lead.Status),
	); err != nil {
		return nil, err
	}
	lead.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, lead); err != nil {
		return nil, mapRepoErr(err, "Lead")
	}
	return ToLeadResponse(lead), nil
}

// Delete elimina un lead.
func (uc *LeadUseCase) Delete(ctx context.Context, id string) error {
	return mapRepoErr(uc.repo.Delete(ctx, id), "Lead")
}

// ToLeadResponse mapea la entidad a la respuesta HTTP.
func ToLeadResponse(l *entity.Lead) *dto.LeadResponse {
	return &dto.LeadResponse{
		ID:          l.ID,
		FirstName:   l.FirstName,
		LastName:    l.LastName,
		Email:       l.Email,
		Phone:       l.Phone,
		Message:     l.Message,
		Company:     l.Company,
		Website:     l.Website,
		Status:      l.Status,
		Converted:   l.Converted,
		CustomerID:  l.CustomerID,
		ConvertedAt: l.ConvertedAt,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
