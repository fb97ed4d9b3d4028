package ports

import (
	"context"
	"time"
)

// PasswordResetEmail datos del correo de restablecimiento.
type PasswordResetEmail struct {
	To       string
	Name     string
	ResetURL string
	ValidFor time.Duration
}

// Mailer puerto de salida para correo transaccional.
type Mailer interface {
	SendPasswordReset(ctx context.Context, msg PasswordResetEmail) error
}
