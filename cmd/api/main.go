// @title                       Andromeda CRM API
// @version                     1.0
// @description                 Leads, clientes, contactos, notas y usuarios con integración a la mesa de ayuda.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/andromeda-crm/docs"
	"github.com/jhoicas/andromeda-crm/internal/application/auth"
	"github.com/jhoicas/andromeda-crm/internal/application/conversion"
	"github.com/jhoicas/andromeda-crm/internal/application/ports"
	"github.com/jhoicas/andromeda-crm/internal/application/usecase"
	infrmail "github.com/jhoicas/andromeda-crm/internal/infrastructure/mail"
	"github.com/jhoicas/andromeda-crm/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/andromeda-crm/internal/infrastructure/pdf"
	"github.com/jhoicas/andromeda-crm/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/andromeda-crm/internal/infrastructure/redis"
	"github.com/jhoicas/andromeda-crm/internal/infrastructure/zammad"
	httpRouter "github.com/jhoicas/andromeda-crm/internal/interfaces/http"
	"github.com/jhoicas/andromeda-crm/pkg/config"
	"github.com/jhoicas/andromeda-crm/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Migraciones antes de aceptar tráfico.
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("versions", applied).Msg("migraciones aplicadas")
	}

	// Registro de tokens revocados: Redis si está configurado, memoria en su defecto.
	var tokens ports.TokenStore
	if cfg.Redis.URL != "" {
		rs, err := infraredis.NewTokenStore(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rs.Close()
		tokens = rs
	} else {
		log.Warn().Msg("REDIS_URL vacío: revocación de tokens en memoria, no se comparte entre instancias")
		tokens = memory.NewTokenStore()
	}

	// Mesa de ayuda opcional. Se deja la interfaz en nil si no hay configuración.
	var helpdesk ports.Helpdesk
	if cfg.Zammad.Enabled() {
		helpdesk = zammad.NewClient(cfg.Zammad.URL, cfg.Zammad.Token, cfg.Zammad.Timeout())
		log.Info().Str("url", cfg.Zammad.URL).Msg("integración con Zammad activa")
	} else {
		log.Warn().Msg("ZAMMAD_URL/ZAMMAD_TOKEN vacíos: conversión de leads solo local")
	}

	var mailer ports.Mailer = infrmail.LogMailer{}
	if cfg.Mail.Enabled() {
		mailer = infrmail.NewSMTPMailer(infrmail.SMTPConfig{
			Server:   cfg.Mail.Server,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	}

	userRepo := postgres.NewUserRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	noteRepo := postgres.NewNoteRepository(pool)
	conversionRepo := postgres.NewLeadConversionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, tokens, mailer, auth.TokenConfig{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		ResetSecret:   cfg.JWT.ResetSecret,
		Issuer:        cfg.JWT.Issuer,
		AccessTTL:     cfg.JWT.AccessTTL(),
		RefreshTTL:    cfg.JWT.RefreshTTL(),
		ResetTTL:      cfg.JWT.ResetTTL(),
		FrontendURL:   cfg.App.FrontendURL,
	})
	convertUC := conversion.NewConvertLeadUseCase(leadRepo, customerRepo, contactRepo, conversionRepo, txRunner, helpdesk)
	customerUC := usecase.NewCustomerUseCase(customerRepo, contactRepo, noteRepo, usecase.CustomerDeps{
		Helpdesk:      helpdesk,
		Reports:       infrapdf.NewMarotoReportGenerator(),
		TicketTimeout: cfg.Zammad.Timeout(),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	openAPI := docs.JSON()
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: openAPI,
		Path:        "docs",
		Title:       cfg.App.Name + " API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		LeadUC:      usecase.NewLeadUseCase(leadRepo),
		ConvertUC:   convertUC,
		CustomerUC:  customerUC,
		ContactUC:   usecase.NewContactUseCase(contactRepo, customerRepo),
		NoteUC:      usecase.NewNoteUseCase(noteRepo, customerRepo),
		UserUC:      usecase.NewUserUseCase(userRepo),
		HealthCheck: pool.Ping,
		OpenAPI:     openAPI,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
