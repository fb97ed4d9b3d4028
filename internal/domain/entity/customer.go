package entity

import "time"

// Customer cliente (organización). ZammadID solo lo asigna la conversión de un lead.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Street    string
	City      string
	State     string
	Postal    string
	Website   string
	IsActive  bool
	ZammadID  *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerStats conteos agregados de clientes.
type CustomerStats struct {
	Total    int
	Active   int
	Inactive int
}
