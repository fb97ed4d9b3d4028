package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_JSON(t *testing.T) {
	s := newTestServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "Admin", "password": adminPassword})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]any
	decode(t, resp, &out)
	assert.NotEmpty(t, out["access_token"])
	assert.NotEmpty(t, out["refresh_token"])
	assert.Equal(t, "bearer", out["token_type"])
	assert.Equal(t, true, out["admin"])
}

func TestLogin_Formulario(t *testing.T) {
	s := newTestServer(t, false)
	form := url.Values{"username": {"agent"}, "password": {agentPassword}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_FallosUniformes(t *testing.T) {
	s := newTestServer(t, false)
	cases := map[string]map[string]string{
		"password incorrecto": {"username": "admin", "password": "nope"},
		"usuario inexistente": {"username": "ghost", "password": adminPassword},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			_, msg := errorCode(t, resp)
			assert.Equal(t, "Incorrect username or password", msg)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Verify / refresh / logout
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifyToken(t *testing.T) {
	s := newTestServer(t, false)
	access, refresh := s.login(t, "admin", adminPassword)

	resp := s.do(t, http.MethodGet, "/api/v1/auth/verifytoken/"+access, "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var data map[string]any
	decode(t, resp, &data)
	assert.Equal(t, adminID, data["id"])
	assert.Equal(t, "admin", data["username"])
	assert.Equal(t, true, data["admin"])

	// Un refresh token no se acepta como access.
	resp2 := s.do(t, http.MethodGet, "/api/v1/auth/verifytoken/"+refresh, "", nil)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
	_, msg := errorCode(t, resp2)
	assert.Equal(t, "Invalid Token", msg)
}

func TestRefresh_RotaElToken(t *testing.T) {
	s := newTestServer(t, false)
	_, refresh := s.login(t, "agent", agentPassword)

	resp := s.do(t, http.MethodPost, "/api/v1/auth/refresh/"+refresh, "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	again := s.do(t, http.MethodPost, "/api/v1/auth/refresh/"+refresh, "", nil)
	defer again.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, again.StatusCode, "el refresh usado queda revocado")
}

func TestLogout_RevocaAccessYRefresh(t *testing.T) {
	s := newTestServer(t, false)
	access, refresh := s.login(t, "agent", agentPassword)

	resp := s.do(t, http.MethodPost, "/api/v1/auth/logout", access, map[string]string{"refresh_token": refresh})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	leads := s.do(t, http.MethodGet, "/api/v1/leads/", access, nil)
	defer leads.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, leads.StatusCode)

	ref := s.do(t, http.MethodPost, "/api/v1/auth/refresh/"+refresh, "", nil)
	defer ref.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, ref.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Forgot / reset
// ──────────────────────────────────────────────────────────────────────────────

func TestForgotPassword_MismaRespuestaExistaONo(t *testing.T) {
	s := newTestServer(t, false)
	for _, email := range []string{"agent@acme.com", "nadie@acme.com"} {
		resp := s.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{"email": email})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]string
		decode(t, resp, &out)
		assert.Equal(t, "Password reset email sent", out["message"])
		resp.Body.Close()
	}
}

func TestResetPassword_TokenInvalido(t *testing.T) {
	s := newTestServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", map[string]string{
		"token": "no.es.un.token", "new_password": "Nueva#1234",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_, msg := errorCode(t, resp)
	assert.Equal(t, "Invalid or expired reset token", msg)
}
