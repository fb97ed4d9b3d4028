// Package memory implementa el registro de tokens en memoria del proceso.
// Se usa cuando no hay REDIS_URL (una sola instancia, desarrollo, tests).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/andromeda-crm/internal/application/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStore mapa jti → expiración protegido por mutex. Las entradas vencidas se purgan al escribir.
type TokenStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewTokenStore crea un registro vacío.
func NewTokenStore() *TokenStore {
	return &TokenStore{entries: make(map[string]time.Time), now: time.Now}
}

// Revoke marca el jti durante ttl. Un ttl no positivo no registra nada (el token ya expiró).
func (s *TokenStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purge()
	s.entries[jti] = s.now().Add(ttl)
	return nil
}

// IsRevoked indica si el jti está marcado y vigente.
func (s *TokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.entries[jti]
	return ok && s.now().Before(exp), nil
}

// Consume marca el jti si no lo estaba. Equivale a SETNX.
func (s *TokenStore) Consume(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purge()
	if exp, ok := s.entries[jti]; ok && s.now().Before(exp) {
		return false, nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	s.entries[jti] = s.now().Add(ttl)
	return true, nil
}

// Len número de entradas vigentes.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purge()
	return len(s.entries)
}

func (s *TokenStore) purge() {
	now := s.now()
	for k, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, k)
		}
	}
}
