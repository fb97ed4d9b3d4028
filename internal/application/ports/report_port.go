package ports

import (
	"context"
	"time"

	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
)

// CustomerReport datos de la ficha de cliente en PDF. Tickets es nil si la mesa de ayuda no respondió.
type CustomerReport struct {
	Customer    *entity.Customer
	Contacts    []*entity.Contact
	Notes       []*entity.Note
	Tickets     *entity.TicketSummary
	GeneratedAt time.Time
}

// CustomerReportGenerator genera la ficha de cliente.
type CustomerReportGenerator interface {
	GenerateCustomerReport(ctx context.Context, report CustomerReport) ([]byte, error)
}
