// Package mail envío de correo transaccional por SMTP (gomail).
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/andromeda-crm/internal/application/ports"
)

const resetSubject = "Andromeda CRM - Password reset"

//go:embed templates/*
var templatesFS embed.FS

var (
	resetHTML = htmltemplate.Must(htmltemplate.ParseFS(templatesFS, "templates/password_reset.html"))
	resetText = texttemplate.Must(texttemplate.ParseFS(templatesFS, "templates/password_reset.txt"))
)

var (
	_ ports.Mailer = (*SMTPMailer)(nil)
	_ ports.Mailer = (*LogMailer)(nil)
)

// SMTPConfig servidor y credenciales SMTP.
type SMTPConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer adaptador Mailer sobre gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	send   func(*gomail.Message) error
}

// NewSMTPMailer construye el adaptador. From cae a Username si viene vacío.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password)
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	m := &SMTPMailer{dialer: d, from: from}
	m.send = func(msg *gomail.Message) error { return d.DialAndSend(msg) }
	return m
}

// SendPasswordReset envía el enlace de restablecimiento en texto y HTML.
// gomail no acepta contexto: el envío corre aparte y se abandona si ctx vence.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, msg ports.PasswordResetEmail) error {
	text, html, err := RenderPasswordReset(msg)
	if err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetAddressHeader("To", msg.To, msg.Name)
	gm.SetHeader("Subject", resetSubject)
	gm.SetBody("text/plain", text)
	gm.AddAlternative("text/html", html)

	done := make(chan error, 1)
	go func() { done <- m.send(gm) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail: enviar a %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail: timeout enviando a %s: %w", msg.To, ctx.Err())
	}
}

// RenderPasswordReset genera los cuerpos de texto y HTML del correo.
func RenderPasswordReset(msg ports.PasswordResetEmail) (text, html string, err error) {
	data := struct {
		Name     string
		ResetURL string
		ValidFor string
	}{
		Name:     msg.Name,
		ResetURL: msg.ResetURL,
		ValidFor: humanDuration(msg.ValidFor),
	}
	var tb, hb bytes.Buffer
	if err := resetText.Execute(&tb, data); err != nil {
		return "", "", fmt.Errorf("mail: plantilla texto: %w", err)
	}
	if err := resetHTML.Execute(&hb, data); err != nil {
		return "", "", fmt.Errorf("mail: plantilla html: %w", err)
	}
	return tb.String(), hb.String(), nil
}

// humanDuration "24 hours", "30 minutes".
func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "a limited time"
	case d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d.Round(time.Minute)/time.Minute), "minute")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// LogMailer se usa cuando no hay SMTP configurado: solo registra el envío.
type LogMailer struct{}

// SendPasswordReset registra solo el destinatario; el enlace lleva un token vigente y nunca se loguea.
func (LogMailer) SendPasswordReset(_ context.Context, msg ports.PasswordResetEmail) error {
	log.Info().Str("to", msg.To).Msg("mail deshabilitado: correo de restablecimiento no enviado")
	return nil
}
