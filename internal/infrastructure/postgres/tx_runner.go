package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/andromeda-crm/internal/application/conversion"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
)

var _ conversion.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunConversion inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunConversion(ctx context.Context, fn func(
	leadRepo repository.LeadRepository,
	customerRepo repository.CustomerRepository,
	contactRepo repository.ContactRepository,
	conversionRepo repository.LeadConversionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewLeadRepository(tx),
		NewCustomerRepository(tx),
		NewContactRepository(tx),
		NewLeadConversionRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
