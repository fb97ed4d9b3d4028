package entity

import "time"

// Ticket vista resumida de un ticket de la mesa de ayuda.
type Ticket struct {
	ID        int64
	Title     string
	Number    string
	State     string
	Priority  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TicketSummary tickets de una organización en la mesa de ayuda.
type TicketSummary struct {
	Tickets    []Ticket
	TotalCount int
	OpenCount  int
	URL        string
}
