package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInvalidToken       = errors.New("token inválido o expirado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrPasswordPolicy     = errors.New("la contraseña no cumple la política")
	ErrAlreadyConverted   = errors.New("el lead ya fue convertido")
	ErrHelpdesk           = errors.New("mesa de ayuda no disponible")
)

// ValidationError error de validación de un campo concreto. Se compara con ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para construir un *ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError recurso concreto inexistente. Se compara con ErrNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound atajo: domain.NotFound("Customer").
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ConflictError clave natural repetida (email, username, nombre). Se compara con ErrDuplicate.
type ConflictError struct {
	Resource string
}

func (e *ConflictError) Error() string { return e.Resource + " already exists" }

func (e *ConflictError) Unwrap() error { return ErrDuplicate }

// Conflict atajo: domain.Conflict("Lead").
func Conflict(resource string) error {
	return &ConflictError{Resource: resource}
}

// PolicyError contraseña rechazada por la política; Message detalla las reglas incumplidas.
// Se compara con ErrPasswordPolicy.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string { return e.Message }

func (e *PolicyError) Unwrap() error { return ErrPasswordPolicy }

// PasswordPolicy envuelve el error de validación de la política.
func PasswordPolicy(err error) error {
	return &PolicyError{Message: err.Error()}
}
