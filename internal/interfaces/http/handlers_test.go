package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	apphttp "github.com/jhoicas/andromeda-crm/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Rutas públicas
// ──────────────────────────────────────────────────────────────────────────────

func TestPing(t *testing.T) {
	s := newTestServer(t, false)
	resp := s.do(t, http.MethodGet, "/api/v1/ping", "", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]string
	decode(t, resp, &out)
	assert.Equal(t, "PONG!", out["message"])
}

func TestHealthYOpenAPI(t *testing.T) {
	s := newTestServer(t, false)
	health := s.do(t, http.MethodGet, "/api/v1/health", "", nil)
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	doc := s.do(t, http.MethodGet, "/api/v1/openapi.json", "", nil)
	defer doc.Body.Close()
	assert.Equal(t, http.StatusOK, doc.StatusCode)
	assert.Contains(t, doc.Header.Get("Content-Type"), "application/json")
}

func TestHealth_BaseCaidaNoExponeDetalle(t *testing.T) {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		HealthCheck: func(context.Context) error {
			return errors.New("dial tcp 10.0.0.5:5432: connect: connection refused (user=crm)")
		},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"unavailable","database":"unavailable"}`, string(raw))
	assert.NotContains(t, string(raw), "10.0.0.5")
}

// ──────────────────────────────────────────────────────────────────────────────
// Leads
// ──────────────────────────────────────────────────────────────────────────────

func newLead(email string) map[string]string {
	return map[string]string{
		"lead_first_name": "Ana",
		"lead_last_name":  "Ruiz",
		"lead_email":      email,
		"lead_company":    "Acme",
	}
}

// createLead captura un lead por la ruta pública y devuelve su id.
func (s *testServer) createLead(t *testing.T, email string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/v1/leads/", "", newLead(email))
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out map[string]any
	decode(t, resp, &out)
	return out["id"].(string)
}

func TestLeadCreate_PublicoYDuplicado(t *testing.T) {
	s := newTestServer(t, false)
	s.createLead(t, "ana@acme.com")

	resp := s.do(t, http.MethodPost, "/api/v1/leads/", "", newLead(" ANA@acme.com "))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_, msg := errorCode(t, resp)
	assert.Equal(t, "Lead already exists", msg)
}

func TestLeadCreate_Validacion(t *testing.T) {
	s := newTestServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/v1/leads/", "", map[string]string{"lead_email": "no-es-email"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	code, _ := errorCode(t, resp)
	assert.Equal(t, "VALIDATION", code)
}

func TestLeads_RequierenToken(t *testing.T) {
	s := newTestServer(t, false)
	resp := s.do(t, http.MethodGet, "/api/v1/leads/", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLead_ConsultasYBorrado(t *testing.T) {
	s := newTestServer(t, false)
	access, _ := s.login(t, "agent", agentPassword)
	id := s.createLead(t, "ana@acme.com")

	byEmail := s.do(t, http.MethodGet, "/api/v1/leads/email/Ana@Acme.com", access, nil)
	defer byEmail.Body.Close()
	assert.Equal(t, http.StatusOK, byEmail.StatusCode)

	upd := s.do(t, http.MethodPut, "/api/v1/leads/"+id, access, map[string]string{"lead_status": "contacted"})
	defer upd.Body.Close()
	require.Equal(t, http.StatusOK, upd.StatusCode)
	var lead map[string]any
	decode(t, upd, &lead)
	assert.Equal(t, "contacted", lead["lead_status"])

	del := s.do(t, http.MethodDelete, "/api/v1/leads/"+id, access, nil)
	defer del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	gone := s.do(t, http.MethodGet, "/api/v1/leads/"+id, access, nil)
	defer gone.Body.Close()
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)
	_, msg := errorCode(t, gone)
	assert.Equal(t, "Lead not found", msg)
}

func TestLead_IDInvalido(t *testing.T) {
	s := newTestServer(t, false)
	access, _ := s.login(t, "agent", agentPassword)
	resp := s.do(t, http.MethodGet, "/api/v1/leads/123", access, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	code, _ := errorCode(t, resp)
	assert.Equal(t, "INVALID_ID", code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión
// ──────────────────────────────────────────────────────────────────────────────

func TestConvert_CreaClienteYContacto(t *testing.T) {
	s := newTestServer(t, true)
	access, _ := s.login(t, "agent", agentPassword)
	id := s.createLead(t, "ana@acme.com")

	resp := s.do(t, http.MethodPost, "/api/v1/leads/"+id+"/convert", access, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Lead     map[string]any `json:"lead"`
		Customer map[string]any `json:"customer"`
		Contact  map[string]any `json:"contact"`
	}
	decode(t, resp, &out)
	assert.Equal(t, true, out.Lead["lead_converted"])
	assert.Equal(t, "Acme", out.Customer["customer_name"])
	assert.NotNil(t, out.Customer["zammad_id"])
	assert.Equal(t, "ana@acme.com", out.Contact["contact_email"])
	assert.Equal(t, out.Customer["id"], out.Contact["customer_id"])

	again := s.do(t, http.MethodPost, "/api/v1/leads/"+id+"/convert", access, nil)
	defer again.Body.Close()
	assert.Equal(t, http.StatusBadRequest, again.StatusCode)
	_, msg := errorCode(t, again)
	assert.Equal(t, "Lead already converted", msg)
}

func TestConvert_FalloMesaDeAyuda502(t *testing.T) {
	s := newTestServer(t, true)
	s.helpdesk.CreateOrgErr = errors.New("connection refused")
	access, _ := s.login(t, "agent", agentPassword)
	id := s.createLead(t, "ana@acme.com")

	resp := s.do(t, http.MethodPost, "/api/v1/leads/"+id+"/convert", access, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, 0, s.store.Customers.Len())
}

func TestConvert_LeadInexistente404(t *testing.T) {
	s := newTestServer(t, false)
	access, _ := s.login(t, "agent", agentPassword)
	resp := s.do(t, http.MethodPost, "/api/v1/leads/00000000-0000-0000-0000-0000000000ff/convert", access, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes, contactos y notas
// ──────────────────────────────────────────────────────────────────────────────

func (s *testServer) createCustomer(t *testing.T, token, name string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/v1/customers/", token, map[string]any{"customer_name": name})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out map[string]any
	decode(t, resp, &out)
	return out["id"].(string)
}

func TestCustomers_CRUDYStats(t *testing.T) {
	s := newTestServer(t, false)
	access, _ := s.login(t, "agent", agentPassword)
	id := s.createCustomer(t, access, "Acme Corp")

	dup := s.do(t, http.MethodPost, "/api/v1/customers/", access, map[string]any{"customer_name": "acme corp"})
	defer dup.Body.Close()
	assert.Equal(t, http.StatusBadRequest, dup.StatusCode)

	byName := s.do(t, http.MethodGet, "/api/v1/customers/name/ACME%20CORP", access, nil)
	defer byName.Body.Close()
	assert.Equal(t, http.StatusOK, byName.StatusCode)

	detail := s.do(t, http.MethodGet, "/api/v1/customers/"+id, access, nil)
	defer detail.Body.Close()
	require.Equal(t, http.StatusOK, detail.StatusCode)
	var d map[string]any
	decode(t, detail, &d)
	assert.Equal(t, false, d["tickets_available"])
	assert.Nil(t, d["ticket_count"])

	stats := s.do(t, http.MethodGet, "/api/v1/customers/stats", access, nil)
	defer stats.Body.Close()
	require.Equal(t, http.StatusOK, stats.StatusCode)
	var st map[string]int
	decode(t, stats, &st)
	assert.Equal(t, 1, st["total_customers"])
	assert.Equal(t, 1, st["active_customers"])
}

func TestCustomer_DetalleConTickets(t *testing.T) {
	s := newTestServer(t, true)
	s.helpdesk.Summary = &entity.TicketSummary{
		Tickets:    []entity.Ticket{{ID: 7, Title: "No arranca", State: "open"}},
		TotalCount: 1,
		OpenCount:  1,
		URL:        "https://helpdesk.example.com/#ticket/zoom/7",
	}
	access, _ := s.login(t, "agent", agentPassword)
	leadID := s.createLead(t, "ana@acme.com")
	conv := s.do(t, http.MethodPost, "/api/v1/leads/"+leadID+"/convert", access, nil)
	defer conv.Body.Close()
	require.Equal(t, http.StatusCreated, conv.StatusCode)
	var out struct {
		Customer map[string]any `json:"customer"`
	}
	decode(t, conv, &out)

	resp := s.do(t, http.MethodGet, "/api/v1/customers/"+out.Customer["id"].(string), access, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d map[string]any
	decode(t, resp, &d)
	assert.Equal(t, true, d["tickets_available"])
	assert.EqualValues(t, 1, d["open_tickets"])
	assert.Len(t, d["customer_tickets"], 1)
}

func TestContactsYNotas_FiltroPorCliente(t *testing.T) {
	s := newTestServer(t, false)
	access, _ := s.login(t, "agent", agentPassword)
	acme := s.createCustomer(t, access, "Acme")
	globex := s.createCustomer(t, access, "Globex")

	for _, c := range []struct{ email, customer string }{
		{"a@acme.com", acme}, {"b@acme.com", acme}, {"c@globex.com", globex},
	} {
		resp := s.do(t, http.MethodPost, "/api/v1/contacts/", access, map[string]string{
			"contact_first_name": "X", "contact_last_name": "Y", "contact_email": c.email, "customer_id": c.customer,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	note := s.do(t, http.MethodPost, "/api/v1/notes/", access, map[string]string{
		"note_title": "Llamada", "note_content": "Interesados en el plan anual", "customer_id": acme,
	})
	defer note.Body.Close()
	require.Equal(t, http.StatusCreated, note.StatusCode)

	list := s.do(t, http.MethodGet, "/api/v1/contacts/?customer_id="+acme, access, nil)
	defer list.Body.Close()
	require.Equal(t, http.StatusOK, list.StatusCode)
	var contacts []map[string]any
	decode(t, list, &contacts)
	assert.Len(t, contacts, 2)

	notes := s.do(t, http.MethodGet, "/api/v1/notes/?customer_id="+globex, access, nil)
	defer notes.Body.Close()
	var ns []map[string]any
	decode(t, notes, &ns)
	assert.Empty(t, ns)

	bad := s.do(t, http.MethodGet, "/api/v1/contacts/?customer_id=xyz", access, nil)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios (solo admin)
// ──────────────────────────────────────────────────────────────────────────────

func TestUsers_SoloAdmin(t *testing.T) {
	s := newTestServer(t, false)
	agent, _ := s.login(t, "agent", agentPassword)
	resp := s.do(t, http.MethodGet, "/api/v1/users/", agent, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUsers_CRUD(t *testing.T) {
	s := newTestServer(t, false)
	admin, _ := s.login(t, "admin", adminPassword)

	weak := s.do(t, http.MethodPost, "/api/v1/users/", admin, map[string]any{
		"username": "luis", "email": "luis@acme.com", "password": "short",
	})
	defer weak.Body.Close()
	assert.Equal(t, http.StatusBadRequest, weak.StatusCode)
	code, _ := errorCode(t, weak)
	assert.Equal(t, "PASSWORD_POLICY", code)

	created := s.do(t, http.MethodPost, "/api/v1/users/", admin, map[string]any{
		"username": "luis", "email": "luis@acme.com", "password": "Luis#12345",
	})
	defer created.Body.Close()
	require.Equal(t, http.StatusCreated, created.StatusCode)
	var u map[string]any
	decode(t, created, &u)
	assert.NotContains(t, u, "password")
	assert.NotContains(t, u, "password_hash")

	self := s.do(t, http.MethodDelete, "/api/v1/users/"+adminID, admin, nil)
	defer self.Body.Close()
	assert.Equal(t, http.StatusBadRequest, self.StatusCode)

	del := s.do(t, http.MethodDelete, "/api/v1/users/"+u["id"].(string), admin, nil)
	defer del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)
}
