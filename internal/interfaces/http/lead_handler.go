package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/andromeda-crm/internal/application/conversion"
	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/application/usecase"
)

// LeadHandler captura y gestión de leads.
type LeadHandler struct {
	uc      *usecase.LeadUseCase
	convert *conversion.ConvertLeadUseCase
}

// NewLeadHandler construye el handler.
func NewLeadHandler(uc *usecase.LeadUseCase, convert *conversion.ConvertLeadUseCase) *LeadHandler {
	return &LeadHandler{uc: uc, convert: convert}
}

// Create godoc
// @Summary      Capturar lead
// @Description  Público: recibe el formulario web.
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLeadRequest  true  "datos del lead"
// @Success      201   {object}  dto.LeadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/leads/ [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/v1/leads/?limit=100&offset=0
func (h *LeadHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID GET /api/v1/leads/:id
func (h *LeadHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByEmail GET /api/v1/leads/email/:email
func (h *LeadHandler) GetByEmail(c *fiber.Ctx) error {
	out, err := h.uc.GetByEmail(c.UserContext(), paramText(c, "email"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/v1/leads/:id
func (h *LeadHandler) Update(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	var in dto.UpdateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/v1/leads/:id
func (h *LeadHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Convert godoc
// @Summary      Convertir lead en cliente
// @Description  Crea organización y usuario en la mesa de ayuda (si está configurada), el cliente y su contacto.
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "lead id"
// @Success      201  {object}  dto.ConvertLeadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/v1/leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	out, err := h.convert.Execute(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
