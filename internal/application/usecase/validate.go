package usecase

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/jhoicas/andromeda-crm/internal/domain"
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, "field required")
	}
	return nil
}

// validEmail exige una dirección simple (sin nombre para mostrar).
func validEmail(field, value string) error {
	if err := required(field, value); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value, "@") {
		return domain.NewValidationError(field, "invalid email address")
	}
	return nil
}

// firstErr devuelve el primer error no nulo.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// mapRepoErr traduce los sentinels de los repositorios a errores con el recurso afectado.
func mapRepoErr(err error, resource string) error {
	var nf *domain.NotFoundError
	var cf *domain.ConflictError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &nf), errors.As(err, &cf):
		return err
	case errors.Is(err, domain.ErrNotFound):
		return domain.NotFound(resource)
	case errors.Is(err, domain.ErrDuplicate):
		return domain.Conflict(resource)
	}
	return err
}
