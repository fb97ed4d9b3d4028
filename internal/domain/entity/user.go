package entity

import "time"

// User operador del CRM. Username y Email se guardan en minúsculas.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Admin        bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName nombre y apellido separados por espacio.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
