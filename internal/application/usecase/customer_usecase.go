package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/application/ports"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
	"github.com/jhoicas/andromeda-crm/pkg/normalize"
)

// defaultTicketTimeout límite de la consulta de tickets si no se configura otro.
const defaultTicketTimeout = 5 * time.Second

// CustomerUseCase CRUD de clientes, enriquecimiento con tickets y ficha PDF.
type CustomerUseCase struct {
	repo          repository.CustomerRepository
	contactRepo   repository.ContactRepository
	noteRepo      repository.NoteRepository
	helpdesk      ports.Helpdesk // nil = integración deshabilitada
	reports       ports.CustomerReportGenerator
	ticketTimeout time.Duration
}

// CustomerDeps dependencias opcionales del caso de uso de clientes.
type CustomerDeps struct {
	Helpdesk      ports.Helpdesk
	Reports       ports.CustomerReportGenerator
	TicketTimeout time.Duration
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	contactRepo repository.ContactRepository,
	noteRepo repository.NoteRepository,
	deps CustomerDeps,
) *CustomerUseCase {
	timeout := deps.TicketTimeout
	if timeout <= 0 {
		timeout = defaultTicketTimeout
	}
	return &CustomerUseCase{
		repo:          repo,
		contactRepo:   contactRepo,
		noteRepo:      noteRepo,
		helpdesk:      deps.Helpdesk,
		reports:       deps.Reports,
		ticketTimeout: timeout,
	}
}

// Create crea un cliente. El nombre es único sin distinguir mayúsculas.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := customerName(in.Name)
	if err := required("customer_name", name); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("Customer")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     normalize.Text(in.Phone),
		Street:    normalize.Text(in.Street),
		City:      normalize.Text(in.City),
		State:     normalize.Text(in.State),
		Postal:    normalize.Text(in.Postal),
		Website:   normalize.Text(in.Website),
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, mapRepoErr(err, "Customer")
	}
	return ToCustomerResponse(c), nil
}

// GetByID devuelve el cliente enriquecido con sus tickets.
// Si la mesa de ayuda falla el cliente se devuelve igual, con los campos de tickets en null.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerDetailResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("Customer")
	}
	out := &dto.CustomerDetailResponse{CustomerResponse: *ToCustomerResponse(c)}
	summary := uc.tickets(ctx, c)
	if summary == nil {
		return out, nil
	}
	out.Tickets = make([]dto.TicketResponse, 0, len(summary.Tickets))
	for _, t := range summary.Tickets {
		out.Tickets = append(out.Tickets, dto.TicketResponse{
			ID:        t.ID,
			Title:     t.Title,
			Number:    t.Number,
			State:     t.State,
			Priority:  t.Priority,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}
	total, open, url := summary.TotalCount, summary.OpenCount, summary.URL
	out.TicketCount = &total
	out.OpenTickets = &open
	out.TicketURL = &url
	out.TicketsAvailable = true
	return out, nil
}

// tickets consulta la mesa de ayuda con timeout propio. nil si no aplica o falla.
func (uc *CustomerUseCase) tickets(ctx context.Context, c *entity.Customer) *entity.TicketSummary {
	if uc.helpdesk == nil || c.ZammadID == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, uc.ticketTimeout)
	defer cancel()
	summary, err := uc.helpdesk.OrganizationTickets(ctx, *c.ZammadID)
	if err != nil {
		log.Warn().Err(err).
			Str("customer_id", c.ID).
			Int64("zammad_id", *c.ZammadID).
			Msg("no se pudieron obtener los tickets del cliente")
		return nil
	}
	return summary
}

// GetByName busca un cliente por nombre exacto (sin distinguir mayúsculas).
func (uc *CustomerUseCase) GetByName(ctx context.Context, name string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByName(ctx, customerName(name))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("Customer")
	}
	return ToCustomerResponse(c), nil
}

// List lista clientes.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCustomerResponse(c))
	}
	return out, nil
}

// Stats total/activos/inactivos.
func (uc *CustomerUseCase) Stats(ctx context.Context) (*dto.CustomerStatsResponse, error) {
	s, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerStatsResponse{Total: s.Total, Active: s.Active, Inactive: s.Inactive}, nil
}

// Update aplica solo los campos enviados.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("Customer")
	}
	if in.Name != nil {
		name := customerName(*in.Name)
		if err := required("customer_name", name); err != nil {
			return nil, err
		}
		if !strings.EqualFold(name, c.Name) {
			other, err := uc.repo.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != c.ID {
				return nil, domain.Conflict("Customer")
			}
		}
		c.Name = name
	}
	applyString(&c.Phone, in.Phone)
	applyString(&c.Street, in.Street)
	applyString(&c.City, in.City)
	applyString(&c.State, in.State)
	applyString(&c.Postal, in.Postal)
	applyString(&c.Website, in.Website)
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, mapRepoErr(err, "Customer")
	}
	return ToCustomerResponse(c), nil
}

// Delete elimina el cliente junto con sus contactos y notas.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	return mapRepoErr(uc.repo.Delete(ctx, id), "Customer")
}

// Report genera la ficha PDF del cliente. Devuelve también el cliente para nombrar el archivo.
func (uc *CustomerUseCase) Report(ctx context.Context, id string) ([]byte, *dto.CustomerResponse, error) {
	if uc.reports == nil {
		return nil, nil, fmt.Errorf("customer report: generador no configurado")
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if c == nil {
		return nil, nil, domain.NotFound("Customer")
	}
	contacts, err := uc.contactRepo.ListByCustomer(ctx, c.ID)
	if err != nil {
		return nil, nil, err
	}
	notes, err := uc.noteRepo.ListByCustomer(ctx, c.ID)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := uc.reports.GenerateCustomerReport(ctx, ports.CustomerReport{
		Customer:    c,
		Contacts:    contacts,
		Notes:       notes,
		Tickets:     uc.tickets(ctx, c),
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return nil, nil, err
	}
	return pdf, ToCustomerResponse(c), nil
}

// customerName recorta y colapsa espacios internos.
func customerName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ToCustomerResponse mapea la entidad a la respuesta HTTP.
func ToCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Street:    c.Street,
		City:      c.City,
		State:     c.State,
		Postal:    c.Postal,
		Website:   c.Website,
		IsActive:  c.IsActive,
		ZammadID:  c.ZammadID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
