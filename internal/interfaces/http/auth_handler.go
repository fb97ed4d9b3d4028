package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/andromeda-crm/internal/application/auth"
	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/domain"
)

// AuthHandler login, verificación y ciclo de vida de tokens.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	// BodyParser resuelve JSON y formulario según Content-Type.
	if err := c.BodyParser(&in); err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", msgIncorrectCredentials)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// VerifyToken godoc
// @Summary      Verificar access token
// @Tags         auth
// @Produce      json
// @Param        token  path  string  true  "access token"
// @Success      200   {object}  dto.TokenData
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/verifytoken/{token} [get]
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	data, err := h.uc.VerifyAccessToken(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data)
}

// Refresh godoc
// @Summary      Renovar par de tokens
// @Description  El refresh token usado queda revocado.
// @Tags         auth
// @Produce      json
// @Param        token  path  string  true  "refresh token"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/refresh/{token} [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.uc.Refresh(c.UserContext(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  dto.LogoutRequest  false  "refresh token opcional"
// @Success      204
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var in dto.LogoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if err := h.uc.Logout(c.UserContext(), getAccessToken(c), in.RefreshToken); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ForgotPassword godoc
// @Summary      Solicitar restablecimiento de contraseña
// @Description  Responde igual exista o no la cuenta.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      200   {object}  dto.MessageResponse
// @Router       /api/v1/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	if strings.TrimSpace(in.Email) == "" {
		in.Email = c.Query("email")
	}
	if err := h.uc.ForgotPassword(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset email sent"})
}

// ResetPassword godoc
// @Summary      Restablecer contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "token, new_password"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/v1/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.ResetPassword(c.UserContext(), in); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return errorJSON(c, fiber.StatusUnauthorized, "INVALID_TOKEN", msgInvalidResetToken)
		}
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password reset successful"})
}
