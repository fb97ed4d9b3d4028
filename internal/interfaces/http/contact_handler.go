package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/application/usecase"
)

// ContactHandler contactos de clientes.
type ContactHandler struct {
	uc *usecase.ContactUseCase
}

// NewContactHandler construye el handler.
func NewContactHandler(uc *usecase.ContactUseCase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

// Create godoc
// @Summary      Crear contacto
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateContactRequest  true  "datos del contacto"
// @Success      201   {object}  dto.ContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/contacts/ [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContactRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar contactos
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id  query  string  false  "filtrar por cliente"
// @Param        limit        query  int     false  "límite"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {array}   dto.ContactResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/contacts/ [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	customerID, ok := customerFilter(c)
	if !ok {
		return nil
	}
	list, err := h.uc.List(c.UserContext(), customerID, pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID GET /api/v1/contacts/:id
func (h *ContactHandler) GetByID(c *fiber.Ctx) error {
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

// Update PUT /api/v1/contacts/:id
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	var in dto.UpdateContactRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/v1/contacts/:id
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// customerFilter lee ?customer_id=; vacío significa sin filtro.
func customerFilter(c *fiber.Ctx) (string, bool) {
	raw := c.Query("customer_id")
	if raw == "" {
		return "", true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = errorJSON(c, fiber.StatusBadRequest, "INVALID_ID", "Invalid customer_id: "+raw)
		return "", false
	}
	return id.String(), true
}
