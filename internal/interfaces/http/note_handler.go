package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/application/usecase"
)

// NoteHandler notas asociadas a clientes.
type NoteHandler struct {
	uc *usecase.NoteUseCase
}

// NewNoteHandler construye el handler.
func NewNoteHandler(uc *usecase.NoteUseCase) *NoteHandler {
	return &NoteHandler{uc: uc}
}

// Create POST /api/v1/notes/
func (h *NoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/v1/notes/?customer_id=
func (h *NoteHandler) List(c *fiber.Ctx) error {
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

// GetByID GET /api/v1/notes/:id
func (h *NoteHandler) GetByID(c *fiber.Ctx) error {
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

// Update PUT /api/v1/notes/:id
func (h *NoteHandler) Update(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	var in dto.UpdateNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/v1/notes/:id
func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
