package entity

import "time"

// Estados del registro de conversión.
const (
	ConversionPending   = "pending"
	ConversionCompleted = "completed"
)

// LeadConversion progreso persistido de la conversión lead → cliente.
// Cada paso externo guarda su id en cuanto termina; un reintento retoma desde el primer paso pendiente.
type LeadConversion struct {
	LeadID               string
	ZammadOrganizationID *int64
	ZammadUserID         *int64
	CustomerID           *string
	ContactID            *string
	Status               string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
