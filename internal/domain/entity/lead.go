package entity

import "time"

// LeadStatusNew estado inicial de todo lead.
const LeadStatusNew = "New"

// Lead prospecto capturado desde el formulario web o cargado por un operador.
// Converted pasa de false a true una sola vez, dentro de la conversión a cliente.
type Lead struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Message     string
	Company     string
	Website     string
	Status      string
	Converted   bool
	CustomerID  *string // cliente creado por la conversión
	ConvertedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
