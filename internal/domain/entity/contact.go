package entity

import "time"

// Contact persona de contacto de un cliente. Email en minúsculas y único.
type Contact struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	CustomerID   string
	CustomerName string // solo lectura (join con customers)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
