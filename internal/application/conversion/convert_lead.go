package conversion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/application/ports"
	"github.com/jhoicas/andromeda-crm/internal/application/usecase"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
	"github.com/jhoicas/andromeda-crm/pkg/normalize"
)

// ConvertLeadUseCase convierte un lead en cliente + contacto, creando antes la organización
// y el usuario en la mesa de ayuda. El progreso se persiste por lead para poder reintentar.
type ConvertLeadUseCase struct {
	leadRepo       repository.LeadRepository
	customerRepo   repository.CustomerRepository
	contactRepo    repository.ContactRepository
	conversionRepo repository.LeadConversionRepository
	tx             TxRunner
	helpdesk       ports.Helpdesk // nil = conversión solo local
}

// NewConvertLeadUseCase construye el caso de uso. helpdesk puede ser nil.
func NewConvertLeadUseCase(
	leadRepo repository.LeadRepository,
	customerRepo repository.CustomerRepository,
	contactRepo repository.ContactRepository,
	conversionRepo repository.LeadConversionRepository,
	tx TxRunner,
	helpdesk ports.Helpdesk,
) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{
		leadRepo:       leadRepo,
		customerRepo:   customerRepo,
		contactRepo:    contactRepo,
		conversionRepo: conversionRepo,
		tx:             tx,
		helpdesk:       helpdesk,
	}
}

// Execute ejecuta la conversión del lead indicado.
func (uc *ConvertLeadUseCase) Execute(ctx context.Context, leadID string) (*dto.ConvertLeadResponse, error) {
	lead, err := uc.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.NotFound("Lead")
	}
	if lead.Converted {
		return nil, domain.ErrAlreadyConverted
	}
	name := customerNameFor(lead)
	if err := uc.precheck(ctx, name, lead.Email); err != nil {
		return nil, err
	}

	conv, err := uc.conversionRepo.GetOrCreate(ctx, lead.ID)
	if err != nil {
		return nil, fmt.Errorf("registro de conversión: %w", err)
	}
	logger := log.With().Str("lead_id", lead.ID).Logger()

	var created createdIDs
	if uc.helpdesk != nil {
		if created, err = uc.ensureHelpdesk(ctx, lead, name, conv); err != nil {
			logger.Error().Err(err).Msg("conversión: fallo en la mesa de ayuda, progreso conservado")
			return nil, err
		}
	}

	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Phone:     lead.Phone,
		Website:   lead.Website,
		IsActive:  true,
		ZammadID:  conv.ZammadOrganizationID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	contact := &entity.Contact{
		ID:           uuid.New().String(),
		FirstName:    lead.FirstName,
		LastName:     lead.LastName,
		Email:        normalize.Email(lead.Email),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.tx.RunConversion(ctx, func(
		leads repository.LeadRepository,
		customers repository.CustomerRepository,
		contacts repository.ContactRepository,
		conversions repository.LeadConversionRepository,
	) error {
		if err := leads.MarkConverted(ctx, lead.ID, customer.ID, now); err != nil {
			return err
		}
		if err := customers.Create(ctx, customer); err != nil {
			return fmt.Errorf("crear cliente: %w", err)
		}
		if err := contacts.Create(ctx, contact); err != nil {
			return fmt.Errorf("crear contacto: %w", err)
		}
		done := *conv
		done.CustomerID = &customer.ID
		done.ContactID = &contact.ID
		done.Status = entity.ConversionCompleted
		done.UpdatedAt = now
		return conversions.Save(ctx, &done)
	})
	if err != nil {
		logger.Error().Err(err).Msg("conversión: fallo la transacción local")
		// Otra petición ya convirtió el lead: sus registros externos no se tocan.
		if !errors.Is(err, domain.ErrAlreadyConverted) {
			uc.compensate(ctx, lead.ID, created)
		}
		return nil, localErr(err)
	}

	lead.Converted = true
	lead.CustomerID = &customer.ID
	lead.ConvertedAt = &now
	lead.UpdatedAt = now
	logger.Info().Str("customer_id", customer.ID).Msg("lead convertido")

	return &dto.ConvertLeadResponse{
		Lead:     *usecase.ToLeadResponse(lead),
		Customer: *usecase.ToCustomerResponse(customer),
		Contact:  *usecase.ToContactResponse(contact),
	}, nil
}

// precheck rechaza la conversión si el cliente o el contacto ya existen localmente.
func (uc *ConvertLeadUseCase) precheck(ctx context.Context, name, email string) error {
	existing, err := uc.customerRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.Conflict("Customer")
	}
	contact, err := uc.contactRepo.GetByEmail(ctx, normalize.Email(email))
	if err != nil {
		return err
	}
	if contact != nil {
		return domain.Conflict("Contact")
	}
	return nil
}

// createdIDs ids creados en la mesa de ayuda por esta ejecución (no los heredados de un intento previo).
type createdIDs struct {
	org  *int64
	user *int64
}

// ensureHelpdesk crea la organización y el usuario que falten, guardando cada id en cuanto existe.
func (uc *ConvertLeadUseCase) ensureHelpdesk(ctx context.Context, lead *entity.Lead, name string, conv *entity.LeadConversion) (createdIDs, error) {
	var created createdIDs
	if conv.ZammadOrganizationID == nil {
		orgID, err := uc.helpdesk.CreateOrganization(ctx, ports.HelpdeskOrganization{
			Name:    name,
			Phone:   lead.Phone,
			Website: lead.Website,
			Note:    lead.Message,
		})
		if err != nil {
			return created, fmt.Errorf("%w: crear organización: %v", domain.ErrHelpdesk, err)
		}
		conv.ZammadOrganizationID = &orgID
		created.org = &orgID
		if err := uc.saveProgress(ctx, conv); err != nil {
			return created, err
		}
	}
	if conv.ZammadUserID == nil {
		userID, err := uc.helpdesk.CreateUser(ctx, ports.HelpdeskUser{
			Email:          normalize.Email(lead.Email),
			FirstName:      lead.FirstName,
			LastName:       lead.LastName,
			Phone:          lead.Phone,
			OrganizationID: *conv.ZammadOrganizationID,
		})
		if err != nil {
			return created, fmt.Errorf("%w: crear usuario: %v", domain.ErrHelpdesk, err)
		}
		conv.ZammadUserID = &userID
		created.user = &userID
		if err := uc.saveProgress(ctx, conv); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (uc *ConvertLeadUseCase) saveProgress(ctx context.Context, conv *entity.LeadConversion) error {
	conv.UpdatedAt = time.Now()
	if err := uc.conversionRepo.Save(ctx, conv); err != nil {
		return fmt.Errorf("guardar progreso de conversión: %w", err)
	}
	return nil
}

// compensateTimeout acota la compensación, que no depende de la petición original.
const compensateTimeout = 30 * time.Second

// compensate borra en la mesa de ayuda lo que creó esta ejecución (usuario y luego organización).
// Relee el registro de progreso: si otra petición lo completó, no toca nada. Los ids heredados de
// intentos previos se conservan para que un reintento los reutilice; sin ids pendientes, el registro se elimina.
func (uc *ConvertLeadUseCase) compensate(ctx context.Context, leadID string, created createdIDs) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()
	logger := log.With().Str("lead_id", leadID).Logger()

	conv, err := uc.conversionRepo.GetByLeadID(ctx, leadID)
	if err != nil {
		logger.Warn().Err(err).Msg("compensación: no se pudo leer el registro de conversión")
		return
	}
	if conv == nil {
		return
	}
	if conv.Status == entity.ConversionCompleted {
		logger.Warn().Msg("compensación: la conversión ya está completada, no se borra nada")
		return
	}

	if uc.helpdesk != nil {
		if created.user != nil {
			if err := uc.helpdesk.DeleteUser(ctx, *created.user); err != nil {
				logger.Warn().Err(err).Int64("zammad_user_id", *created.user).Msg("compensación: no se pudo borrar el usuario")
				return
			}
			if sameID(conv.ZammadUserID, created.user) {
				conv.ZammadUserID = nil
			}
		}
		if created.org != nil {
			if err := uc.helpdesk.DeleteOrganization(ctx, *created.org); err != nil {
				logger.Warn().Err(err).Int64("zammad_org_id", *created.org).Msg("compensación: no se pudo borrar la organización")
				// El usuario ya no existe: se guarda para no intentar borrarlo otra vez.
				_ = uc.saveProgress(ctx, conv)
				return
			}
			if sameID(conv.ZammadOrganizationID, created.org) {
				conv.ZammadOrganizationID = nil
			}
		}
	}

	if conv.ZammadOrganizationID != nil || conv.ZammadUserID != nil {
		if err := uc.saveProgress(ctx, conv); err != nil {
			logger.Warn().Err(err).Msg("compensación: no se pudo guardar el progreso")
		}
		return
	}
	if err := uc.conversionRepo.Delete(ctx, leadID); err != nil {
		logger.Warn().Err(err).Msg("compensación: no se pudo borrar el registro de conversión")
	}
}

func sameID(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

// customerNameFor usa la empresa del lead; si no hay, su nombre completo.
func customerNameFor(lead *entity.Lead) string {
	name := strings.Join(strings.Fields(lead.Company), " ")
	if name == "" {
		name = strings.TrimSpace(lead.FirstName + " " + lead.LastName)
	}
	return name
}

// localErr traduce los errores de la transacción al recurso afectado.
func localErr(err error) error {
	var cf *domain.ConflictError
	var nf *domain.NotFoundError
	switch {
	case errors.Is(err, domain.ErrAlreadyConverted), errors.As(err, &cf), errors.As(err, &nf):
		return err
	case errors.Is(err, domain.ErrNotFound):
		return domain.NotFound("Lead")
	case errors.Is(err, domain.ErrDuplicate):
		return domain.Conflict("Customer")
	}
	return err
}
