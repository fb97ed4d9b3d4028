// Package zammad adaptador REST de la mesa de ayuda Zammad.
package zammad

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/andromeda-crm/internal/application/ports"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
)

var _ ports.Helpdesk = (*Client)(nil)

const (
	maxResponseBytes = 1 << 20
	// openStateQuery estados new, open y pending reminder.
	openStateQuery = "state_id:(1 OR 2 OR 3)"
	// maxSearchPages tope de páginas por búsqueda (SearchPageSize * maxSearchPages tickets).
	maxSearchPages = 50
)

// SearchPageSize tickets por página en las búsquedas; una página incompleta es la última.
const SearchPageSize = 100

// Client cliente HTTP contra la API v1 de Zammad con token Bearer.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient construye el cliente. timeout acota cada llamada de red; los use cases añaden su propio ctx.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras del protocolo Zammad ─────────────────────────────────────────

type organizationRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Note    string `json:"note,omitempty"`
	Active  bool   `json:"active"`
}

type userRequest struct {
	Login          string   `json:"login"`
	Email          string   `json:"email"`
	FirstName      string   `json:"firstname"`
	LastName       string   `json:"lastname"`
	Phone          string   `json:"phone,omitempty"`
	OrganizationID int64    `json:"organization_id,omitempty"`
	Roles          []string `json:"roles"`
	Active         bool     `json:"active"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type ticketPayload struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Number    string    `json:"number"`
	State     string    `json:"state"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type errorResponse struct {
	Error      string `json:"error"`
	ErrorHuman string `json:"error_human"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// CreateOrganization crea la organización y devuelve su id.
func (c *Client) CreateOrganization(ctx context.Context, org ports.HelpdeskOrganization) (int64, error) {
	var out createdResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/organizations", organizationRequest{
		Name:    org.Name,
		Phone:   org.Phone,
		Website: org.Website,
		Note:    org.Note,
		Active:  true,
	}, &out)
	if err != nil {
		return 0, err
	}
	if out.ID == 0 {
		return 0, fmt.Errorf("zammad: organización creada sin id")
	}
	return out.ID, nil
}

// CreateUser crea un usuario con rol Customer; el login es el email.
func (c *Client) CreateUser(ctx context.Context, user ports.HelpdeskUser) (int64, error) {
	var out createdResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/users", userRequest{
		Login:          user.Email,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Phone:          user.Phone,
		OrganizationID: user.OrganizationID,
		Roles:          []string{"Customer"},
		Active:         true,
	}, &out)
	if err != nil {
		return 0, err
	}
	if out.ID == 0 {
		return 0, fmt.Errorf("zammad: usuario creado sin id")
	}
	return out.ID, nil
}

// DeleteOrganization elimina la organización. Un 404 cuenta como borrado.
func (c *Client) DeleteOrganization(ctx context.Context, id int64) error {
	return c.delete(ctx, "/api/v1/organizations/"+strconv.FormatInt(id, 10))
}

// DeleteUser elimina el usuario. Un 404 cuenta como borrado.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.delete(ctx, "/api/v1/users/"+strconv.FormatInt(id, 10))
}

// OrganizationTickets consulta en paralelo todos los tickets y los abiertos de la organización.
func (c *Client) OrganizationTickets(ctx context.Context, organizationID int64) (*entity.TicketSummary, error) {
	orgQuery := "organization_id:" + strconv.FormatInt(organizationID, 10)

	var all, open []ticketPayload
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = c.searchTickets(gctx, orgQuery)
		return err
	})
	g.Go(func() error {
		var err error
		open, err = c.searchTickets(gctx, orgQuery+" AND "+openStateQuery)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tickets := make([]entity.Ticket, 0, len(all))
	for _, t := range all {
		tickets = append(tickets, entity.Ticket{
			ID:        t.ID,
			Title:     t.Title,
			Number:    t.Number,
			State:     t.State,
			Priority:  t.Priority,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}
	return &entity.TicketSummary{
		Tickets:    tickets,
		TotalCount: len(tickets),
		OpenCount:  len(open),
		URL:        c.TicketURL(organizationID),
	}, nil
}

// TicketURL enlace al listado de tickets de la organización.
func (c *Client) TicketURL(organizationID int64) string {
	return fmt.Sprintf("%s/api/v1/tickets?expand=true&organization_id=%d", c.baseURL, organizationID)
}

// searchTickets recorre las páginas de la búsqueda hasta la primera incompleta.
func (c *Client) searchTickets(ctx context.Context, query string) ([]ticketPayload, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("expand", "true")
	q.Set("per_page", strconv.Itoa(SearchPageSize))
	var out []ticketPayload
	for page := 1; page <= maxSearchPages; page++ {
		q.Set("page", strconv.Itoa(page))
		var batch []ticketPayload
		if err := c.do(ctx, http.MethodGet, "/api/v1/tickets/search?"+q.Encode(), nil, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < SearchPageSize {
			break
		}
	}
	return out, nil
}

func (c *Client) delete(ctx context.Context, path string) error {
	err := c.do(ctx, http.MethodDelete, path, nil, nil)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}

// StatusError respuesta HTTP no exitosa de Zammad.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("zammad: HTTP %d: %s", e.StatusCode, e.Message)
}

// do serializa in (si no es nil), ejecuta la petición y decodifica en out (si no es nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("zammad: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("zammad: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("zammad: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("zammad: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("zammad: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(rawBody))
		var er errorResponse
		if json.Unmarshal(rawBody, &er) == nil && er.Error != "" {
			msg = er.Error
			if er.ErrorHuman != "" {
				msg = er.ErrorHuman
			}
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || len(bytes.TrimSpace(rawBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("zammad: deserializar respuesta: %w", err)
	}
	return nil
}
