package dto

import "time"

// CreateLeadRequest entrada del formulario de captura.
type CreateLeadRequest struct {
	FirstName string `json:"lead_first_name"`
	LastName  string `json:"lead_last_name"`
	Email     string `json:"lead_email"`
	Phone     string `json:"lead_phone"`
	Message   string `json:"lead_message"`
	Company   string `json:"lead_company"`
	Website   string `json:"lead_website"`
	Status    string `json:"lead_status"`
}

// UpdateLeadRequest actualización parcial. lead_converted no es editable.
type UpdateLeadRequest struct {
	FirstName *string `json:"lead_first_name"`
	LastName  *string `json:"lead_last_name"`
	Email     *string `json:"lead_email"`
	Phone     *string `json:"lead_phone"`
	Message   *string `json:"lead_message"`
	Company   *string `json:"lead_company"`
	Website   *string `json:"lead_website"`
	Status    *string `json:"lead_status"`
}

// LeadResponse salida de un lead.
type LeadResponse struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"lead_first_name"`
	LastName    string     `json:"lead_last_name"`
	Email       string     `json:"lead_email"`
	Phone       string     `json:"lead_phone"`
	Message     string     `json:"lead_message"`
	Company     string     `json:"lead_company"`
	Website     string     `json:"lead_website"`
	Status      string     `json:"lead_status"`
	Converted   bool       `json:"lead_converted"`
	CustomerID  *string    `json:"customer_id"`
	ConvertedAt *time.Time `json:"converted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ConvertLeadResponse resultado de convertir un lead en cliente.
type ConvertLeadResponse struct {
	Lead     LeadResponse     `json:"lead"`
	Customer CustomerResponse `json:"customer"`
	Contact  ContactResponse  `json:"contact"`
}
