package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
	"github.com/forestplants/storefront/internal/core/service"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				p, err := a.session.Login(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", displayName(p), p.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(opts *rootOptions) *cobra.Command {
	var in ports.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				p, err := a.session.Register(cmd.Context(), in)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Welcome, %s\n", displayName(p))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential and profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				a.session.Logout()
				printf(cmd.OutOrStdout(), "Signed out\n")
				return nil
			})
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user, refreshed from the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd.Context(), func(a *app) error {
				if !a.session.IsLoggedIn() {
					return domain.ErrNotLoggedIn
				}
				p := a.session.Profile()
				if !offline {
					var err error
					if p, err = a.session.RefreshProfile(cmd.Context()); err != nil {
						return err
					}
				}

				if p == nil {
					return domain.ErrNotLoggedIn
				}

				out := cmd.OutOrStdout()
				printf(out, "Name:  %s\n", displayName(p))
				printf(out, "Email: %s\n", p.Email)
				printf(out, "Role:  %s\n", p.Role)
				if exp, ok := service.CredentialExpiry(a.session.Credential()); ok {
					printf(out, "Token: expires %s\n", exp.Local().Format(time.RFC1123))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "show the stored profile without asking the backend")
	return cmd
}

func displayName(p *domain.UserProfile) string {
	if p == nil {
		return ""
	}
	if p.Name != "" {
		return p.Name
	}
	if p.Email != "" {
		return p.Email
	}
	return fmt.Sprintf("user %s", p.ID)
}
