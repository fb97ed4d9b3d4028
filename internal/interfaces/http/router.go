package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/andromeda-crm/internal/application/auth"
	"github.com/jhoicas/andromeda-crm/internal/application/conversion"
	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	LeadUC     *usecase.LeadUseCase
	ConvertUC  *conversion.ConvertLeadUseCase
	CustomerUC *usecase.CustomerUseCase
	ContactUC  *usecase.ContactUseCase
	NoteUC     *usecase.NoteUseCase
	UserUC     *usecase.UserUseCase
	// HealthCheck opcional; típicamente pool.Ping.
	HealthCheck func(ctx context.Context) error
	// OpenAPI documento servido en /api/v1/openapi.json.
	OpenAPI []byte
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")
	requireAuth := AuthMiddleware(deps.AuthUC)

	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(dto.MessageResponse{Message: "PONG!"})
	})
	api.Get("/health", healthHandler(deps.HealthCheck))
	if len(deps.OpenAPI) > 0 {
		api.Get("/openapi.json", func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(deps.OpenAPI)
		})
	}

	// Auth (público salvo logout)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/verifytoken/:token", authHandler.VerifyToken)
	authGroup.Post("/refresh/:token", authHandler.Refresh)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)

	// Leads: la captura es pública (formulario web), el resto protegido
	leads := api.Group("/leads")
	leadHandler := NewLeadHandler(deps.LeadUC, deps.ConvertUC)
	leads.Post("/", leadHandler.Create)
	leads.Get("/", requireAuth, leadHandler.List)
	leads.Get("/email/:email", requireAuth, leadHandler.GetByEmail)
	leads.Get("/:id", requireAuth, leadHandler.GetByID)
	leads.Put("/:id", requireAuth, leadHandler.Update)
	leads.Delete("/:id", requireAuth, leadHandler.Delete)
	leads.Post("/:id/convert", requireAuth, leadHandler.Convert)

	// Customers (protegido)
	customers := api.Group("/customers", requireAuth)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/stats", customerHandler.Stats)
	customers.Get("/name/:name", customerHandler.GetByName)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Get("/:id/report", customerHandler.Report)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Contacts (protegido)
	contacts := api.Group("/contacts", requireAuth)
	contactHandler := NewContactHandler(deps.ContactUC)
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/", contactHandler.List)
	contacts.Get("/:id", contactHandler.GetByID)
	contacts.Put("/:id", contactHandler.Update)
	contacts.Delete("/:id", contactHandler.Delete)

	// Notes (protegido)
	notes := api.Group("/notes", requireAuth)
	noteHandler := NewNoteHandler(deps.NoteUC)
	notes.Post("/", noteHandler.Create)
	notes.Get("/", noteHandler.List)
	notes.Get("/:id", noteHandler.GetByID)
	notes.Put("/:id", noteHandler.Update)
	notes.Delete("/:id", noteHandler.Delete)

	// Users (solo admin)
	users := api.Group("/users", requireAuth, RequireAdmin())
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}

func healthHandler(check func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if check == nil {
			return c.JSON(fiber.Map{"status": "ok"})
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := check(ctx); err != nil {
			// El detalle queda en el log; la ruta es pública.
			log.Error().Err(err).Msg("health: base de datos no disponible")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "database": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "ok"})
	}
}
