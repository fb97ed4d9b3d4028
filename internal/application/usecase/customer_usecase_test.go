package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/application/ports"
	"github.com/jhoicas/andromeda-crm/internal/application/usecase"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/testutil"
)

type reportStub struct {
	got *ports.CustomerReport
}

func (r *reportStub) GenerateCustomerReport(_ context.Context, rep ports.CustomerReport) ([]byte, error) {
	r.got = &rep
	return []byte("%PDF-stub"), nil
}

func newCustomerUC(store *testutil.Store, hd ports.Helpdesk, reports ports.CustomerReportGenerator) *usecase.CustomerUseCase {
	return usecase.NewCustomerUseCase(store.Customers, store.Contacts, store.Notes, usecase.CustomerDeps{
		Helpdesk:      hd,
		Reports:       reports,
		TicketTimeout: 100 * time.Millisecond,
	})
}

// seedLinkedCustomer guarda un cliente vinculado a la organización 42 de la mesa de ayuda.
func seedLinkedCustomer(t *testing.T, store *testutil.Store) *entity.Customer {
	t.Helper()
	zid := int64(42)
	c := &entity.Customer{ID: "c-linked", Name: "Acme", IsActive: true, ZammadID: &zid}
	require.NoError(t, store.Customers.Create(context.Background(), c))
	return c
}

// ── CRUD ─────────────────────────────────────────────────────────────────────

func TestCustomerUseCase_Create_NombreDuplicado(t *testing.T) {
	ctx := context.Background()
	uc := newCustomerUC(testutil.NewStore(), nil, nil)

	created, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "  Acme   Corp "})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", created.Name)
	assert.True(t, created.IsActive)
	assert.Nil(t, created.ZammadID)

	_, err = uc.Create(ctx, dto.CreateCustomerRequest{Name: "acme corp"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Equal(t, "Customer already exists", err.Error())
}

func TestCustomerUseCase_GetByNameYStats(t *testing.T) {
	ctx := context.Background()
	uc := newCustomerUC(testutil.NewStore(), nil, nil)
	_, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Acme"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCustomerRequest{Name: "Globex", IsActive: boolPtr(false)})
	require.NoError(t, err)

	c, err := uc.GetByName(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.CustomerStatsResponse{Total: 2, Active: 1, Inactive: 1}, *stats)
}

func TestCustomerUseCase_Update(t *testing.T) {
	ctx := context.Background()
	uc := newCustomerUC(testutil.NewStore(), nil, nil)
	created, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Acme", City: "Bogotá"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateCustomerRequest{Phone: strPtr("555"), IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "555", updated.Phone)
	assert.Equal(t, "Bogotá", updated.City)
	assert.False(t, updated.IsActive)

	_, err = uc.Update(ctx, "missing", dto.UpdateCustomerRequest{Phone: strPtr("1")})
	assert.Equal(t, "Customer not found", err.Error())
}

func TestCustomerUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	uc := newCustomerUC(store, nil, nil)
	created, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	assert.Equal(t, 0, store.Customers.Len())

	err = uc.Delete(ctx, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "Customer not found", err.Error())
}

// ── Enriquecimiento con tickets ──────────────────────────────────────────────

func TestCustomerUseCase_GetByID_ConTickets(t *testing.T) {
	store := testutil.NewStore()
	c := seedLinkedCustomer(t, store)
	hd := testutil.NewHelpdesk()
	hd.Summary = &entity.TicketSummary{
		Tickets:    []entity.Ticket{{ID: 1, Title: "Caída"}, {ID: 2, Title: "Factura"}},
		TotalCount: 2,
		OpenCount:  1,
		URL:        "https://helpdesk/api/v1/tickets?expand=true&organization_id=42",
	}
	uc := newCustomerUC(store, hd, nil)

	out, err := uc.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.True(t, out.TicketsAvailable)
	require.NotNil(t, out.TicketCount)
	assert.Equal(t, 2, *out.TicketCount)
	assert.Equal(t, 1, *out.OpenTickets)
	assert.Len(t, out.Tickets, 2)
	assert.Contains(t, *out.TicketURL, "organization_id=42")
}

func TestCustomerUseCase_GetByID_MesaDeAyudaCaida(t *testing.T) {
	store := testutil.NewStore()
	c := seedLinkedCustomer(t, store)
	hd := testutil.NewHelpdesk()
	hd.TicketsErr = errors.New("zammad: HTTP 503")
	uc := newCustomerUC(store, hd, nil)

	out, err := uc.GetByID(context.Background(), c.ID)
	require.NoError(t, err, "el cliente se devuelve aunque falle la mesa de ayuda")
	assert.Equal(t, "Acme", out.Name)
	assert.False(t, out.TicketsAvailable)
	assert.Nil(t, out.Tickets)
	assert.Nil(t, out.TicketCount)
	assert.Nil(t, out.OpenTickets)
	assert.Nil(t, out.TicketURL)
}

func TestCustomerUseCase_GetByID_TimeoutMesaDeAyuda(t *testing.T) {
	store := testutil.NewStore()
	c := seedLinkedCustomer(t, store)
	hd := testutil.NewHelpdesk()
	hd.Block = make(chan struct{})
	defer close(hd.Block)
	uc := newCustomerUC(store, hd, nil)

	start := time.Now()
	out, err := uc.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.False(t, out.TicketsAvailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestCustomerUseCase_GetByID_SinVincular(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	hd := testutil.NewHelpdesk()
	uc := newCustomerUC(store, hd, nil)
	created, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Local"})
	require.NoError(t, err)

	out, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, out.TicketsAvailable)
	assert.Equal(t, 0, hd.TicketQueries, "sin zammad_id no se consulta la mesa de ayuda")

	_, err = uc.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ── Report ───────────────────────────────────────────────────────────────────

func TestCustomerUseCase_Report(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	c := seedLinkedCustomer(t, store)
	require.NoError(t, store.Contacts.Create(ctx, &entity.Contact{ID: "k1", Email: "ana@acme.com", CustomerID: c.ID}))
	require.NoError(t, store.Notes.Create(ctx, &entity.Note{ID: "n1", Title: "Kickoff", CustomerID: c.ID}))
	rep := &reportStub{}
	uc := newCustomerUC(store, testutil.NewHelpdesk(), rep)

	pdf, customer, err := uc.Report(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), pdf)
	assert.Equal(t, "Acme", customer.Name)
	require.NotNil(t, rep.got)
	assert.Len(t, rep.got.Contacts, 1)
	assert.Len(t, rep.got.Notes, 1)
	assert.NotNil(t, rep.got.Tickets)

	_, _, err = uc.Report(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
