package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
	"github.com/jhoicas/andromeda-crm/pkg/normalize"
	"github.com/jhoicas/andromeda-crm/pkg/password"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create crea un usuario: valida política de contraseña, unicidad de username y email, y hashea con bcrypt.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := normalize.Username(in.Username)
	email := normalize.Email(in.Email)
	if err := firstErr(
		required("username", username),
		validEmail("email", email),
		required("password", in.Password),
	); err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	if err := uc.ensureUnique(ctx, "", username, email); err != nil {
		return nil, err
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		FirstName:    normalize.Text(in.FirstName),
		LastName:     normalize.Text(in.LastName),
		PasswordHash: hash,
		Admin:        in.Admin,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, mapRepoErr(err, "Username")
	}
	return toUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("User")
	}
	return toUserResponse(user), nil
}

// List lista usuarios.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.UserResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

// Update aplica solo los campos enviados. Un password nuevo pasa por la política y se re-hashea.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("User")
	}
	username, email := user.Username, user.Email
	if in.Username != nil {
		username = normalize.Username(*in.Username)
		if err := required("username", username); err != nil {
			return nil, err
		}
	}
	if in.Email != nil {
		email = normalize.Email(*in.Email)
		if err := validEmail("email", email); err != nil {
			return nil, err
		}
	}
	if err := uc.ensureUnique(ctx, user.ID, username, email); err != nil {
		return nil, err
	}
	user.Username, user.Email = username, email
	applyString(&user.FirstName, in.FirstName)
	applyString(&user.LastName, in.LastName)
	if in.Admin != nil {
		user.Admin = *in.Admin
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		if err := checkPassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := password.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, mapRepoErr(err, "User")
	}
	return toUserResponse(user), nil
}

// Delete elimina un usuario.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	return mapRepoErr(uc.repo.Delete(ctx, id), "User")
}

// ensureUnique verifica username y email contra otros usuarios (selfID se excluye).
func (uc *UserUseCase) ensureUnique(ctx context.Context, selfID, username, email string) error {
	byName, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if byName != nil && byName.ID != selfID {
		return domain.Conflict("Username")
	}
	byEmail, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if byEmail != nil && byEmail.ID != selfID {
		return domain.Conflict("Email")
	}
	return nil
}

// checkPassword traduce el error de política al sentinel de dominio.
func checkPassword(plain string) error {
	if err := password.CheckPolicy(plain); err != nil {
		return domain.PasswordPolicy(err)
	}
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Admin:     u.Admin,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
