package ports

import (
	"context"

	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
)

// HelpdeskOrganization datos para crear la organización de un cliente en la mesa de ayuda.
type HelpdeskOrganization struct {
	Name    string
	Phone   string
	Website string
	Note    string
}

// HelpdeskUser datos para crear el usuario (rol Customer) de un contacto.
type HelpdeskUser struct {
	Email          string
	FirstName      string
	LastName       string
	Phone          string
	OrganizationID int64
}

// Helpdesk puerto de salida hacia la mesa de ayuda (Zammad).
// Todas las llamadas son de red: el ctx debe llevar timeout.
type Helpdesk interface {
	CreateOrganization(ctx context.Context, org HelpdeskOrganization) (int64, error)
	CreateUser(ctx context.Context, user HelpdeskUser) (int64, error)
	DeleteOrganization(ctx context.Context, id int64) error
	DeleteUser(ctx context.Context, id int64) error
	// OrganizationTickets tickets de la organización y cuántos siguen abiertos.
	OrganizationTickets(ctx context.Context, organizationID int64) (*entity.TicketSummary, error)
}
