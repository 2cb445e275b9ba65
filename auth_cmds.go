package main

import (
	"context"

	"github.com/spf13/cobra"

	"library-client/router"
)

func newLoginCmd(a *app) *cobra.Command {
	var (
		username  string
		librarian bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a user or librarian",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.login(cmd.Context(), librarian, username)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when empty)")
	cmd.Flags().BoolVar(&librarian, "librarian", false, "sign in to the librarian portal")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := a.credentials(username)
			if err != nil {
				return err
			}
			if err := a.mgr.Session().RegisterUser(cmd.Context(), username, password); err != nil {
				return err
			}
			a.printer.Success("Registered and signed in as %s", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.mgr.Session().Logout()
			a.printer.Success("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.mgr.Whoami()
			if err != nil {
				return err
			}
			return a.emit(id, func() error {
				a.printer.Print("%s (%s, id %d)", id.Username, id.Role, id.ID)
				return nil
			})
		},
	}
}

// login signs in against the user or librarian endpoint.
func (a *app) login(ctx context.Context, librarian bool, username string) error {
	username, password, err := a.credentials(username)
	if err != nil {
		return err
	}
	store := a.mgr.Session()
	if librarian {
		err = store.LoginLibrarian(ctx, username, password)
	} else {
		err = store.LoginUser(ctx, username, password)
	}
	if err != nil {
		return err
	}
	a.printer.Success("Signed in as %s (%s)", username, store.Role())
	return nil
}

func (a *app) credentials(username string) (string, string, error) {
	var err error
	if username == "" {
		if username, err = a.prompt.line("Username: "); err != nil {
			return "", "", err
		}
	}
	password, err := a.prompt.password("Password: ")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

// home is the landing view of the current session.
func (a *app) home() string {
	switch {
	case a.mgr.Session().IsLibrarian():
		path, _ := router.PathFor(router.LibrarianDashboard, nil)
		return path
	case a.mgr.Session().IsUser():
		path, _ := router.PathFor(router.UserCatalog, nil)
		return path
	default:
		return "/"
	}
}
