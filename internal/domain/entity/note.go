package entity

import "time"

// Note nota libre asociada a un cliente.
type Note struct {
	ID           string
	Title        string
	Content      string
	CustomerID   string
	CustomerName string // solo lectura (join con customers)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
