package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andromeda-crm/internal/application/auth"
	"github.com/jhoicas/andromeda-crm/internal/application/conversion"
	"github.com/jhoicas/andromeda-crm/internal/application/ports"
	"github.com/jhoicas/andromeda-crm/internal/application/usecase"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/andromeda-crm/internal/interfaces/http"
	"github.com/jhoicas/andromeda-crm/internal/testutil"
	"github.com/jhoicas/andromeda-crm/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	adminID       = "00000000-0000-0000-0000-000000000001"
	agentID       = "00000000-0000-0000-0000-000000000002"
	adminPassword = "Admin#1234"
	agentPassword = "Agent#1234"
)

var tokenCfg = auth.TokenConfig{
	AccessSecret:  "access-secret-http",
	RefreshSecret: "refresh-secret-http",
	ResetSecret:   "reset-secret-http",
	Issuer:        "andromeda-http-test",
	AccessTTL:     30 * time.Minute,
	RefreshTTL:    time.Hour,
	ResetTTL:      time.Hour,
	FrontendURL:   "https://crm.example.com",
}

type testServer struct {
	app      *fiber.App
	store    *testutil.Store
	helpdesk *testutil.Helpdesk
	tokens   *memory.TokenStore
	mailer   *testutil.Mailer
}

// newTestServer app completa sobre repositorios en memoria. withHelpdesk activa la integración.
func newTestServer(t *testing.T, withHelpdesk bool) *testServer {
	t.Helper()
	s := &testServer{
		store:  testutil.NewStore(),
		tokens: memory.NewTokenStore(),
		mailer: &testutil.Mailer{},
	}
	seedUser(t, s.store.Users, adminID, "admin", "admin@acme.com", adminPassword, true)
	seedUser(t, s.store.Users, agentID, "agent", "agent@acme.com", agentPassword, false)

	var helpdesk ports.Helpdesk
	if withHelpdesk {
		s.helpdesk = testutil.NewHelpdesk()
		helpdesk = s.helpdesk
	}
	st := s.store
	authUC := auth.NewAuthUseCase(st.Users, s.tokens, s.mailer, tokenCfg)

	s.app = fiber.New()
	apphttp.Router(s.app, apphttp.RouterDeps{
		AuthUC:     authUC,
		LeadUC:     usecase.NewLeadUseCase(st.Leads),
		ConvertUC:  conversion.NewConvertLeadUseCase(st.Leads, st.Customers, st.Contacts, st.Conversions, st.Tx, helpdesk),
		CustomerUC: usecase.NewCustomerUseCase(st.Customers, st.Contacts, st.Notes, usecase.CustomerDeps{Helpdesk: helpdesk}),
		ContactUC:  usecase.NewContactUseCase(st.Contacts, st.Customers),
		NoteUC:     usecase.NewNoteUseCase(st.Notes, st.Customers),
		UserUC:     usecase.NewUserUseCase(st.Users),
		OpenAPI:    []byte(`{"swagger":"2.0"}`),
	})
	return s
}

func seedUser(t *testing.T, repo *testutil.UserRepo, id, username, email, plain string, admin bool) {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &entity.User{
		ID: id, Username: username, Email: email, PasswordHash: hash, Admin: admin, IsActive: true,
	}))
}

// do lanza la petición; body se serializa a JSON si no es nil.
func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login devuelve el access y refresh token del usuario.
func (s *testServer) login(t *testing.T, username, plain string) (string, string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": plain})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	decode(t, resp, &out)
	return out.AccessToken, out.RefreshToken
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func errorCode(t *testing.T, resp *http.Response) (string, string) {
	t.Helper()
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	decode(t, resp, &body)
	return body.Code, body.Message
}
