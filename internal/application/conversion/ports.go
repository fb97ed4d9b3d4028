package conversion

import (
	"context"

	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
)

// TxRunner ejecuta la parte local de la conversión dentro de una única transacción.
// Los repositorios que recibe fn están atados a esa transacción.
type TxRunner interface {
	RunConversion(ctx context.Context, fn func(
		leadRepo repository.LeadRepository,
		customerRepo repository.CustomerRepository,
		contactRepo repository.ContactRepository,
		conversionRepo repository.LeadConversionRepository,
	) error) error
}
