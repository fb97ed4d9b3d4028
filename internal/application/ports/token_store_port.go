package ports

import (
	"context"
	"time"
)

// TokenStore registro de jti revocados o ya consumidos.
// Las entradas expiran solas cuando el token original deja de ser válido.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// Consume marca el jti como usado. first=false si ya estaba usado o revocado.
	Consume(ctx context.Context, jti string, ttl time.Duration) (first bool, err error)
}
