package zammad_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andromeda-crm/internal/application/ports"
	"github.com/jhoicas/andromeda-crm/internal/infrastructure/zammad"
)

const token = "zammad-test-token"

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *zammad.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, zammad.NewClient(srv.URL+"/", token, 2*time.Second)
}

// ── CreateOrganization / CreateUser ──────────────────────────────────────────

func TestClient_CreateOrganization(t *testing.T) {
	var got map[string]any
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/organizations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 42, "name": "Acme"}`))
	})

	id, err := c.CreateOrganization(context.Background(), ports.HelpdeskOrganization{Name: "Acme", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "Acme", got["name"])
	assert.Equal(t, true, got["active"])
}

func TestClient_CreateUser_RolCustomer(t *testing.T) {
	var got map[string]any
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id": 7}`))
	})

	id, err := c.CreateUser(context.Background(), ports.HelpdeskUser{
		Email: "ana@acme.com", FirstName: "Ana", LastName: "Diaz", OrganizationID: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "ana@acme.com", got["login"])
	assert.Equal(t, []any{"Customer"}, got["roles"])
	assert.Equal(t, float64(42), got["organization_id"])
}

func TestClient_ErrorHTTP(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "Email address is already used"}`))
	})

	_, err := c.CreateUser(context.Background(), ports.HelpdeskUser{Email: "ana@acme.com"})
	var se *zammad.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.StatusCode)
	assert.Contains(t, se.Message, "already used")
}

// ── Delete ───────────────────────────────────────────────────────────────────

func TestClient_Delete_404EsIdempotente(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == "/api/v1/users/7" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, c.DeleteUser(context.Background(), 7))
	assert.NoError(t, c.DeleteOrganization(context.Background(), 42))
}

// ── OrganizationTickets ──────────────────────────────────────────────────────

func TestClient_OrganizationTickets(t *testing.T) {
	var calls int32
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/api/v1/tickets/search", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("expand"))
		q := r.URL.Query().Get("query")
		if strings.Contains(q, "state_id") {
			_, _ = w.Write([]byte(`[{"id": 1, "title": "Caída", "number": "1001", "state": "open", "priority": "2 normal"}]`))
			return
		}
		_, _ = w.Write([]byte(`[
			{"id": 1, "title": "Caída", "number": "1001", "state": "open", "priority": "2 normal", "created_at": "2026-01-02T10:00:00Z"},
			{"id": 2, "title": "Factura", "number": "1002", "state": "closed", "priority": "1 low"}
		]`))
	})

	sum, err := c.OrganizationTickets(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 2, sum.TotalCount)
	assert.Equal(t, 1, sum.OpenCount)
	require.Len(t, sum.Tickets, 2)
	assert.Equal(t, "Caída", sum.Tickets[0].Title)
	assert.Equal(t, 2026, sum.Tickets[0].CreatedAt.Year())
	assert.True(t, strings.HasSuffix(sum.URL, "/api/v1/tickets?expand=true&organization_id=42"))
}

func TestClient_OrganizationTickets_Paginado(t *testing.T) {
	total := zammad.SearchPageSize + 30
	tickets := make([]map[string]any, total)
	for i := range tickets {
		tickets[i] = map[string]any{"id": i + 1, "title": "T" + strconv.Itoa(i+1), "state": "closed"}
	}
	var pages int32
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("query"), "state_id") {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		atomic.AddInt32(&pages, 1)
		assert.Equal(t, strconv.Itoa(zammad.SearchPageSize), r.URL.Query().Get("per_page"))
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		assert.NoError(t, err)
		from := (page - 1) * zammad.SearchPageSize
		to := min(from+zammad.SearchPageSize, total)
		if from > total {
			from = total
		}
		_ = json.NewEncoder(w).Encode(tickets[from:to])
	})

	sum, err := c.OrganizationTickets(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&pages), "la segunda página incompleta cierra la búsqueda")
	assert.Equal(t, total, sum.TotalCount)
	require.Len(t, sum.Tickets, total)
	assert.Equal(t, "T"+strconv.Itoa(total), sum.Tickets[total-1].Title)
	assert.Equal(t, 0, sum.OpenCount)
}

func TestClient_OrganizationTickets_Timeout(t *testing.T) {
	_, c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.OrganizationTickets(ctx, 42)
	assert.Error(t, err)
}

func TestClient_TokenIncorrecto(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {})
	c := zammad.NewClient(srv.URL, "otro", time.Second)

	_, err := c.OrganizationTickets(context.Background(), 1)
	var se *zammad.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}
