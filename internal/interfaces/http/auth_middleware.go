package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/domain"
)

// Locals keys cargadas por AuthMiddleware.
const (
	LocalUserID      = "user_id"
	LocalUsername    = "username"
	LocalAdmin       = "admin"
	LocalAccessToken = "access_token"
)

// tokenVerifier contrato mínimo que necesita el middleware. Lo implementa *auth.AuthUseCase.
type tokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*dto.TokenData, error)
}

// AuthMiddleware valida el Bearer Token (firma, tipo, expiración y revocación) y carga la identidad en c.Locals.
func AuthMiddleware(verifier tokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Not authenticated")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return errorJSON(c, fiber.StatusUnauthorized, "INVALID_TOKEN", msgInvalidToken)
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "Not authenticated")
		}
		data, err := verifier.VerifyAccessToken(c.UserContext(), tokenString)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidToken) {
				log.Error().Err(err).Msg("verificación de token")
			}
			return errorJSON(c, fiber.StatusUnauthorized, "INVALID_TOKEN", msgInvalidToken)
		}
		c.Locals(LocalUserID, data.ID)
		c.Locals(LocalUsername, data.Username)
		c.Locals(LocalAdmin, data.Admin)
		c.Locals(LocalAccessToken, tokenString)
		return c.Next()
	}
}

// RequireAdmin exige admin=true en el token. Debe usarse DESPUÉS de AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated")
		}
		if !IsAdmin(c) {
			return errorJSON(c, fiber.StatusForbidden, "FORBIDDEN", "Not enough permissions")
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetUsername devuelve el username del token.
func GetUsername(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUsername).(string)
	return s
}

// IsAdmin indica si el token pertenece a un administrador.
func IsAdmin(c *fiber.Ctx) bool {
	b, _ := c.Locals(LocalAdmin).(bool)
	return b
}

func getAccessToken(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalAccessToken).(string)
	return s
}
