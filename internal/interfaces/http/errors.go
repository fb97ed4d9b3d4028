package http

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/domain"
)

// Mensajes fijos del contrato HTTP.
const (
	msgIncorrectCredentials = "Incorrect username or password"
	msgInvalidToken         = "Invalid Token"
	msgInvalidResetToken    = "Invalid or expired reset token"
	msgAlreadyConverted     = "Lead already converted"
	msgHelpdeskUnavailable  = "Helpdesk service unavailable"
	msgInternal             = "Internal server error"
)

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

// respondError traduce los errores de dominio a status + {code, message}.
// Lo no reconocido se registra y sale como 500 genérico.
func respondError(c *fiber.Ctx, err error) error {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
		cf *domain.ConflictError
		pe *domain.PolicyError
	)
	switch {
	case errors.As(err, &ve):
		return errorJSON(c, fiber.StatusBadRequest, "VALIDATION", ve.Error())
	case errors.As(err, &nf):
		return errorJSON(c, fiber.StatusNotFound, "NOT_FOUND", nf.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.As(err, &cf):
		return errorJSON(c, fiber.StatusBadRequest, "DUPLICATE", cf.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return errorJSON(c, fiber.StatusBadRequest, "DUPLICATE", "Already exists")
	case errors.As(err, &pe):
		return errorJSON(c, fiber.StatusBadRequest, "PASSWORD_POLICY", pe.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return errorJSON(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrAlreadyConverted):
		return errorJSON(c, fiber.StatusBadRequest, "ALREADY_CONVERTED", msgAlreadyConverted)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errorJSON(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", msgIncorrectCredentials)
	case errors.Is(err, domain.ErrInvalidToken):
		return errorJSON(c, fiber.StatusUnauthorized, "INVALID_TOKEN", msgInvalidToken)
	case errors.Is(err, domain.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, "FORBIDDEN", "Not enough permissions")
	case errors.Is(err, domain.ErrHelpdesk):
		log.Error().Err(err).Str("path", c.Path()).Msg("fallo de la mesa de ayuda")
		return errorJSON(c, fiber.StatusBadGateway, "HELPDESK_ERROR", msgHelpdeskUnavailable)
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return errorJSON(c, fiber.StatusInternalServerError, "INTERNAL", msgInternal)
}

func invalidBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
}

// paramUUID lee :id y valida que sea un UUID. ok=false ya respondió 400.
func paramUUID(c *fiber.Ctx, name string) (string, bool) {
	raw := c.Params(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = errorJSON(c, fiber.StatusBadRequest, "INVALID_ID", "Invalid id: "+raw)
		return "", false
	}
	return id.String(), true
}

// paramText parámetro de ruta libre (nombre, email) ya decodificado.
func paramText(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// pageFromQuery ?limit=&offset= con los valores por defecto de dto.PageRequest.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 100), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	return page
}
