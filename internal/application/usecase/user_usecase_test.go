package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/application/usecase"
	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/testutil"
	"github.com/jhoicas/andromeda-crm/pkg/password"
)

func newUserReq() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Username:  "Ana",
		Email:     "Ana@Acme.com",
		FirstName: "Ana",
		LastName:  "Díaz",
		Password:  "Secret#123",
	}
}

func TestUserUseCase_Create(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewUserRepo()
	uc := usecase.NewUserUseCase(repo)

	out, err := uc.Create(ctx, newUserReq())
	require.NoError(t, err)
	assert.Equal(t, "ana", out.Username)
	assert.Equal(t, "ana@acme.com", out.Email)
	assert.True(t, out.IsActive)
	assert.False(t, out.Admin)

	stored, err := repo.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret#123", stored.PasswordHash)
	assert.True(t, password.Verify(stored.PasswordHash, "Secret#123"))
}

func TestUserUseCase_Create_Duplicados(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewUserUseCase(testutil.NewUserRepo())
	_, err := uc.Create(ctx, newUserReq())
	require.NoError(t, err)

	in := newUserReq()
	in.Email = "otra@acme.com"
	_, err = uc.Create(ctx, in)
	assert.Equal(t, "Username already exists", err.Error())

	in = newUserReq()
	in.Username = "otra"
	_, err = uc.Create(ctx, in)
	assert.Equal(t, "Email already exists", err.Error())
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestUserUseCase_Create_PoliticaPassword(t *testing.T) {
	repo := testutil.NewUserRepo()
	uc := usecase.NewUserUseCase(repo)

	for _, weak := range []string{"short1!", "nouppercase1!", "NoDigits!!", "NoSpecial123"} {
		in := newUserReq()
		in.Password = weak
		_, err := uc.Create(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrPasswordPolicy), weak)
	}
	assert.Equal(t, 0, repo.Len())
}

func TestUserUseCase_Update(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewUserRepo()
	uc := usecase.NewUserUseCase(repo)
	created, err := uc.Create(ctx, newUserReq())
	require.NoError(t, err)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateUserRequest{Admin: boolPtr(true), Password: strPtr("Otra#4567")})
	require.NoError(t, err)
	assert.True(t, updated.Admin)
	assert.Equal(t, "ana", updated.Username)
	stored, _ := repo.GetByID(ctx, created.ID)
	assert.True(t, password.Verify(stored.PasswordHash, "Otra#4567"))

	_, err = uc.Update(ctx, created.ID, dto.UpdateUserRequest{Password: strPtr("debil")})
	assert.True(t, errors.Is(err, domain.ErrPasswordPolicy))
	stored, _ = repo.GetByID(ctx, created.ID)
	assert.True(t, password.Verify(stored.PasswordHash, "Otra#4567"), "el hash no cambia si la política falla")

	_, err = uc.Update(ctx, "missing", dto.UpdateUserRequest{Admin: boolPtr(true)})
	assert.Equal(t, "User not found", err.Error())
}

func TestUserUseCase_ListDelete(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewUserUseCase(testutil.NewUserRepo())
	created, err := uc.Create(ctx, newUserReq())
	require.NoError(t, err)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.GetByID(ctx, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = uc.Delete(ctx, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "User not found", err.Error())
}
