package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/andromeda-crm/internal/application/dto"
	"github.com/jhoicas/andromeda-crm/internal/application/usecase"
	"github.com/jhoicas/andromeda-crm/internal/infrastructure/postgres"
)

type createUserOpts struct {
	username  string
	email     string
	firstName string
	lastName  string
	password  string
	admin     bool
}

func createUserCmd() *cobra.Command {
	var opts createUserOpts
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Crea un usuario (por ejemplo, el primer administrador)",
		Long: `Crea un usuario aplicando las mismas reglas que la API (unicidad y política de contraseña).

La contraseña puede pasarse con --password o con la variable CRM_USER_PASSWORD.

Ejemplos:
  crmctl create-user --username admin --email admin@acme.com --admin
  CRM_USER_PASSWORD='S3cret#pass' crmctl create-user --username ana --email ana@acme.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.password == "" {
				opts.password = os.Getenv("CRM_USER_PASSWORD")
			}
			if err := opts.validate(); err != nil {
				return err
			}
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool) error {
				uc := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
				user, err := uc.Create(ctx, opts.request())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "usuario %s creado (id %s, admin=%t)\n", user.Username, user.ID, user.Admin)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.username, "username", "", "nombre de usuario")
	f.StringVar(&opts.email, "email", "", "email")
	f.StringVar(&opts.firstName, "first-name", "", "nombre")
	f.StringVar(&opts.lastName, "last-name", "", "apellido")
	f.StringVar(&opts.password, "password", "", "contraseña (o CRM_USER_PASSWORD)")
	f.BoolVar(&opts.admin, "admin", false, "otorga permisos de administrador")
	return cmd
}

func (o createUserOpts) validate() error {
	var missing []string
	if strings.TrimSpace(o.username) == "" {
		missing = append(missing, "--username")
	}
	if strings.TrimSpace(o.email) == "" {
		missing = append(missing, "--email")
	}
	if o.password == "" {
		missing = append(missing, "--password")
	}
	if len(missing) > 0 {
		return errors.New("faltan parámetros: " + strings.Join(missing, ", "))
	}
	return nil
}

func (o createUserOpts) request() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Username:  o.username,
		Email:     o.email,
		FirstName: o.firstName,
		LastName:  o.lastName,
		Password:  o.password,
		Admin:     o.admin,
	}
}
