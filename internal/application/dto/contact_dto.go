package dto

import "time"

// CreateContactRequest entrada para crear un contacto.
type CreateContactRequest struct {
	FirstName  string `json:"contact_first_name"`
	LastName   string `json:"contact_last_name"`
	Email      string `json:"contact_email"`
	CustomerID string `json:"customer_id"`
}

// UpdateContactRequest actualización parcial.
type UpdateContactRequest struct {
	FirstName  *string `json:"contact_first_name"`
	LastName   *string `json:"contact_last_name"`
	Email      *string `json:"contact_email"`
	CustomerID *string `json:"customer_id"`
}

// ContactResponse salida de un contacto.
type ContactResponse struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"contact_first_name"`
	LastName     string    `json:"contact_last_name"`
	Email        string    `json:"contact_email"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
