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
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/testutil"
)

func seedCustomer(t *testing.T, store *testutil.Store, id, name string) {
	t.Helper()
	require.NoError(t, store.Customers.Create(context.Background(), &entity.Customer{ID: id, Name: name, IsActive: true}))
}

// ── Contacts ─────────────────────────────────────────────────────────────────

func TestContactUseCase_Create(t *testing.T) {
	store := testutil.NewStore()
	seedCustomer(t, store, "c1", "Acme")
	uc := usecase.NewContactUseCase(store.Contacts, store.Customers)

	out, err := uc.Create(context.Background(), dto.CreateContactRequest{
		FirstName: "Ana", LastName: "Díaz", Email: " ANA@acme.com ", CustomerID: "c1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@acme.com", out.Email)
	assert.Equal(t, "Acme", out.CustomerName)
}

func TestContactUseCase_Create_ClienteInexistente(t *testing.T) {
	store := testutil.NewStore()
	uc := usecase.NewContactUseCase(store.Contacts, store.Customers)

	_, err := uc.Create(context.Background(), dto.CreateContactRequest{
		FirstName: "Ana", LastName: "Díaz", Email: "ana@acme.com", CustomerID: "missing",
	})
	require.Error(t, err)
	assert.Equal(t, "Customer not found", err.Error())
	assert.Equal(t, 0, store.Contacts.Len())
}

func TestContactUseCase_Create_EmailDuplicado(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedCustomer(t, store, "c1", "Acme")
	uc := usecase.NewContactUseCase(store.Contacts, store.Customers)
	in := dto.CreateContactRequest{FirstName: "Ana", LastName: "Díaz", Email: "ana@acme.com", CustomerID: "c1"}
	_, err := uc.Create(ctx, in)
	require.NoError(t, err)

	_, err = uc.Create(ctx, in)
	assert.Equal(t, "Contact already exists", err.Error())
}

func TestContactUseCase_ListPorCliente(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedCustomer(t, store, "c1", "Acme")
	seedCustomer(t, store, "c2", "Globex")
	uc := usecase.NewContactUseCase(store.Contacts, store.Customers)
	for i, cid := range []string{"c1", "c1", "c2"} {
		_, err := uc.Create(ctx, dto.CreateContactRequest{
			FirstName: "N", LastName: "L", Email: string(rune('a'+i)) + "@x.com", CustomerID: cid,
		})
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := uc.List(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = uc.List(ctx, "missing", dto.PageRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestContactUseCase_Update(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedCustomer(t, store, "c1", "Acme")
	seedCustomer(t, store, "c2", "Globex")
	uc := usecase.NewContactUseCase(store.Contacts, store.Customers)
	created, err := uc.Create(ctx, dto.CreateContactRequest{FirstName: "Ana", LastName: "Díaz", Email: "ana@acme.com", CustomerID: "c1"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateContactRequest{CustomerID: strPtr("c2")})
	require.NoError(t, err)
	assert.Equal(t, "c2", updated.CustomerID)
	assert.Equal(t, "Ana", updated.FirstName)

	_, err = uc.Update(ctx, created.ID, dto.UpdateContactRequest{CustomerID: strPtr("missing")})
	assert.Equal(t, "Customer not found", err.Error())

	_, err = uc.Update(ctx, "missing", dto.UpdateContactRequest{FirstName: strPtr("X")})
	assert.Equal(t, "Contact not found", err.Error())
}

func TestContactUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedCustomer(t, store, "c1", "Acme")
	uc := usecase.NewContactUseCase(store.Contacts, store.Customers)
	created, err := uc.Create(ctx, dto.CreateContactRequest{FirstName: "Ana", LastName: "Díaz", Email: "ana@acme.com", CustomerID: "c1"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	assert.True(t, errors.Is(uc.Delete(ctx, created.ID), domain.ErrNotFound))
}

// ── Notes ────────────────────────────────────────────────────────────────────

func TestNoteUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedCustomer(t, store, "c1", "Acme")
	uc := usecase.NewNoteUseCase(store.Notes, store.Customers)

	_, err := uc.Create(ctx, dto.CreateNoteRequest{Title: "Kickoff", CustomerID: "missing"})
	assert.Equal(t, "Customer not found", err.Error())

	created, err := uc.Create(ctx, dto.CreateNoteRequest{Title: " Kickoff ", Content: "Primera reunión", CustomerID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", created.Title)
	assert.Equal(t, "Acme", created.CustomerName)

	updated, err := uc.Update(ctx, created.ID, dto.UpdateNoteRequest{Content: strPtr("Segunda reunión")})
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", updated.Title)
	assert.Equal(t, "Segunda reunión", updated.Content)

	_, err = uc.Update(ctx, created.ID, dto.UpdateNoteRequest{Title: strPtr("")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", got.Title, "una actualización rechazada no modifica la nota")

	list, err := uc.List(ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.GetByID(ctx, created.ID)
	assert.Equal(t, "Note not found", err.Error())

	err = uc.Delete(ctx, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "Note not found", err.Error())
}

func TestNoteUseCase_Update_Inexistente(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedCustomer(t, store, "c1", "Acme")
	uc := usecase.NewNoteUseCase(store.Notes, store.Customers)
	_, err := uc.Create(ctx, dto.CreateNoteRequest{Title: "Kickoff", CustomerID: "c1"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, "missing", dto.UpdateNoteRequest{Title: strPtr("Otra")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "Note not found", err.Error())

	list, err := uc.List(ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1, "no se crea ninguna nota")
	assert.Equal(t, "Kickoff", list[0].Title)
}
