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

// NoteUseCase notas de clientes.
type NoteUseCase struct {
	repo         repository.NoteRepository
	customerRepo repository.CustomerRepository
}

func NewNoteUseCase(repo repository.NoteRepository, customerRepo repository.CustomerRepository) *NoteUseCase {
	return &NoteUseCase{repo: repo, customerRepo: customerRepo}
}

func (uc *NoteUseCase) Create(ctx context.Context, in dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	if err := firstErr(
		required("note_title", in.Title),
		required("customer_id", in.CustomerID),
	); err != nil {
		return nil, err
	}
	customer, err := uc.customer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	n := &entity.Note{
		ID:           uuid.New().String(),
		Title:        normalize.Text(in.Title),
		Content:      in.Content,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, mapRepoErr(err, "Customer")
	}
	return toNoteResponse(n), nil
}

func (uc *NoteUseCase) GetByID(ctx context.Context, id string) (*dto.NoteResponse, error) {
	n, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.NotFound("Note")
	}
	return toNoteResponse(n), nil
}

func (uc *NoteUseCase) List(ctx context.Context, customerID string, page dto.PageRequest) ([]*dto.NoteResponse, error) {
	var (
		list []*entity.Note
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
	out := make([]*dto.NoteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNoteResponse(n))
	}
	return out, nil
}

func (uc *NoteUseCase) Update(ctx context.Context, id string, in dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	n, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.NotFound("Note")
	}
	if in.CustomerID != nil && *in.CustomerID != n.CustomerID {
		customer, err := uc.customer(ctx, *in.CustomerID)
		if err != nil {
			return nil, err
		}
		n.CustomerID = customer.ID
		n.CustomerName = customer.Name
	}
	applyString(&n.Title, in.Title)
	if in.Content != nil {
		n.Content = *in.Content
	}
	if err := required("note_title", n.Title); err != nil {
		return nil, err
	}
	n.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, n); err != nil {
		return nil, mapRepoErr(err, "Note")
	}
	return toNoteResponse(n), nil
}

func (uc *NoteUseCase) Delete(ctx context.Context, id string) error {
	return mapRepoErr(uc.repo.Delete(ctx, id), "Note")
}

func (uc *NoteUseCase) customer(ctx context.Context, id string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.NotFound("Customer")
	}
	return customer, nil
}

func toNoteResponse(n *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		ID:           n.ID,
		Title:        n.Title,
		Content:      n.Content,
		CustomerID:   n.CustomerID,
		CustomerName: n.CustomerName,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}
