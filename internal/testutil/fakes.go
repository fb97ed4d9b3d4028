package testutil

import (
	"context"
	"sync"

	"github.com/jhoicas/andromeda-crm/internal/application/conversion"
	"github.com/jhoicas/andromeda-crm/internal/application/ports"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
)

var (
	_ ports.Helpdesk      = (*Helpdesk)(nil)
	_ ports.Mailer        = (*Mailer)(nil)
	_ conversion.TxRunner = (*TxRunner)(nil)
)

// Helpdesk mesa de ayuda falsa: asigna ids incrementales y registra llamadas.
// Los campos *Err fuerzan el fallo de la operación correspondiente; los borrados fallan con un ctx vencido.
type Helpdesk struct {
	mu sync.Mutex

	CreateOrgErr  error
	CreateUserErr error
	DeleteOrgErr  error
	DeleteUserErr error
	TicketsErr    error
	Summary       *entity.TicketSummary

	nextID        int64
	Orgs          map[int64]ports.HelpdeskOrganization
	Users         map[int64]ports.HelpdeskUser
	OrgCreates    int
	UserCreates   int
	TicketQueries int
	// Block si no es nil, OrganizationTickets espera a que se cierre o a que venza el ctx.
	Block chan struct{}
}

func NewHelpdesk() *Helpdesk {
	return &Helpdesk{
		nextID: 100,
		Orgs:   make(map[int64]ports.HelpdeskOrganization),
		Users:  make(map[int64]ports.HelpdeskUser),
	}
}

func (h *Helpdesk) CreateOrganization(_ context.Context, org ports.HelpdeskOrganization) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.OrgCreates++
	if h.CreateOrgErr != nil {
		return 0, h.CreateOrgErr
	}
	h.nextID++
	h.Orgs[h.nextID] = org
	return h.nextID, nil
}

func (h *Helpdesk) CreateUser(_ context.Context, user ports.HelpdeskUser) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.UserCreates++
	if h.CreateUserErr != nil {
		return 0, h.CreateUserErr
	}
	h.nextID++
	h.Users[h.nextID] = user
	return h.nextID, nil
}

func (h *Helpdesk) DeleteOrganization(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.DeleteOrgErr != nil {
		return h.DeleteOrgErr
	}
	delete(h.Orgs, id)
	return nil
}

func (h *Helpdesk) DeleteUser(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.DeleteUserErr != nil {
		return h.DeleteUserErr
	}
	delete(h.Users, id)
	return nil
}

func (h *Helpdesk) OrganizationTickets(ctx context.Context, _ int64) (*entity.TicketSummary, error) {
	h.mu.Lock()
	h.TicketQueries++
	block, err, sum := h.Block, h.TicketsErr, h.Summary
	h.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if sum == nil {
		return &entity.TicketSummary{Tickets: []entity.Ticket{}}, nil
	}
	return sum, nil
}

// Mailer registra los correos enviados.
type Mailer struct {
	mu   sync.Mutex
	Err  error
	Sent []ports.PasswordResetEmail
}

func (m *Mailer) SendPasswordReset(_ context.Context, msg ports.PasswordResetEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// Messages copia de los correos enviados.
func (m *Mailer) Messages() []ports.PasswordResetEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.PasswordResetEmail(nil), m.Sent...)
}

// TxRunner ejecuta fn sobre los repositorios en memoria. Err hace fallar la "transacción" antes de
// tocar nada; FailAfter la hace fallar después de fn y deshace lo escrito restaurando instantáneas.
type TxRunner struct {
	Leads       *LeadRepo
	Customers   *CustomerRepo
	Contacts    *ContactRepo
	Conversions *ConversionRepo
	Err         error
	FailAfter   error
	Calls       int
}

func (r *TxRunner) RunConversion(ctx context.Context, fn func(
	leadRepo repository.LeadRepository,
	customerRepo repository.CustomerRepository,
	contactRepo repository.ContactRepository,
	conversionRepo repository.LeadConversionRepository,
) error) error {
	r.Calls++
	if r.Err != nil {
		return r.Err
	}
	rollback := r.snapshot()
	if err := fn(r.Leads, r.Customers, r.Contacts, r.Conversions); err != nil {
		rollback()
		return err
	}
	if r.FailAfter != nil {
		rollback()
		return r.FailAfter
	}
	return nil
}

func (r *TxRunner) snapshot() func() {
	leads := snapTable(r.Leads.t)
	customers := snapTable(r.Customers.t)
	contacts := snapTable(r.Contacts.t)
	conversions := snapTable(r.Conversions.t)
	return func() {
		leads()
		customers()
		contacts()
		conversions()
	}
}

func snapTable[T any](t *table[T]) func() {
	t.mu.Lock()
	rows := make(map[string]T, len(t.rows))
	for k, v := range t.rows {
		rows[k] = v
	}
	order := append([]string(nil), t.order...)
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.rows = rows
		t.order = order
	}
}

// Store agrupa los repositorios en memoria de un test.
type Store struct {
	Users       *UserRepo
	Leads       *LeadRepo
	Customers   *CustomerRepo
	Contacts    *ContactRepo
	Notes       *NoteRepo
	Conversions *ConversionRepo
	Tx          *TxRunner
}

// NewStore repositorios vacíos y un TxRunner sobre ellos.
func NewStore() *Store {
	customers := NewCustomerRepo()
	s := &Store{
		Users:       NewUserRepo(),
		Leads:       NewLeadRepo(),
		Customers:   customers,
		Contacts:    NewContactRepo(customers),
		Notes:       NewNoteRepo(),
		Conversions: NewConversionRepo(),
	}
	s.Tx = &TxRunner{Leads: s.Leads, Customers: s.Customers, Contacts: s.Contacts, Conversions: s.Conversions}
	return s
}
