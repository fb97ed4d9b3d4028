package dto

import "time"

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name     string `json:"customer_name"`
	Phone    string `json:"customer_phone"`
	Street   string `json:"customer_street"`
	City     string `json:"customer_city"`
	State    string `json:"customer_state"`
	Postal   string `json:"customer_postal"`
	Website  string `json:"customer_website"`
	IsActive *bool  `json:"is_active"`
}

// UpdateCustomerRequest actualización parcial.
type UpdateCustomerRequest struct {
	Name     *string `json:"customer_name"`
	Phone    *string `json:"customer_phone"`
	Street   *string `json:"customer_street"`
	City     *string `json:"customer_city"`
	State    *string `json:"customer_state"`
	Postal   *string `json:"customer_postal"`
	Website  *string `json:"customer_website"`
	IsActive *bool   `json:"is_active"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"customer_name"`
	Phone     string    `json:"customer_phone"`
	Street    string    `json:"customer_street"`
	City      string    `json:"customer_city"`
	State     string    `json:"customer_state"`
	Postal    string    `json:"customer_postal"`
	Website   string    `json:"customer_website"`
	IsActive  bool      `json:"is_active"`
	ZammadID  *int64    `json:"zammad_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TicketResponse ticket de la mesa de ayuda.
type TicketResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Number    string    `json:"number"`
	State     string    `json:"state"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerDetailResponse cliente enriquecido con tickets. Los campos de tickets son null
// si el cliente no está vinculado o la mesa de ayuda no respondió.
type CustomerDetailResponse struct {
	CustomerResponse
	Tickets          []TicketResponse `json:"customer_tickets"`
	TicketCount      *int             `json:"ticket_count"`
	OpenTickets      *int             `json:"open_tickets"`
	TicketURL        *string          `json:"ticket_url"`
	TicketsAvailable bool             `json:"tickets_available"`
}

// CustomerStatsResponse conteos de clientes.
type CustomerStatsResponse struct {
	Total    int `json:"total_customers"`
	Active   int `json:"active_customers"`
	Inactive int `json:"inactive_customers"`
}
