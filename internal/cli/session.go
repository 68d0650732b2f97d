package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/spf13/cobra"
)

// PasswordEnv is read when --password is not given.
const PasswordEnv = "DEVHUB_PASSWORD"

func password(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(PasswordEnv); v != "" {
		return v, nil
	}
	return "", errors.New("password required: use --password or " + PasswordEnv)
}

func printUser(w io.Writer, u *domain.User) {
	fmt.Fprintf(w, "%s <%s>\n", u.Name, u.Email)
	fmt.Fprintf(w, "id:    %d\n", u.ID)
	fmt.Fprintf(w, "role:  %s\n", u.Role)
	fmt.Fprintf(w, "level: %d (%d xp)\n", u.Level, u.XP)
}

func newLoginCommand(opts *options) *cobra.Command {
	var email, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := password(pass)
			if err != nil {
				return err
			}

			s, err := opts.app.Auth().Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), s.User, func(w io.Writer) {
				fmt.Fprintf(w, "Signed in as %s <%s>\n", s.User.Name, s.User.Email)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account e-mail")
	cmd.Flags().StringVar(&pass, "password", "", "account password (or "+PasswordEnv+")")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCommand(opts *options) *cobra.Command {
	var (
		req  domain.RegisterRequest
		pass string
		role string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := password(pass)
			if err != nil {
				return err
			}

			req.Password = pw
			req.Role = domain.Role(role)
			req.IsActive = true
			if !req.Role.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}

			s, err := opts.app.Auth().Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), s.User, func(w io.Writer) {
				fmt.Fprintf(w, "Registered and signed in as %s <%s>\n", s.User.Name, s.User.Email)
			})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account e-mail")
	cmd.Flags().StringVar(&pass, "password", "", "account password (or "+PasswordEnv+")")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleStudent), "STUDENT, TEACHER, ADMIN or COORDINATOR")
	cmd.Flags().StringVar(&req.GitHub, "github", "", "GitHub profile URL")
	cmd.Flags().StringVar(&req.LinkedIn, "linkedin", "", "LinkedIn profile URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.app.Auth().Logout(cmd.Context())
		},
	}
}

func newRefreshCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token for a new session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.app.Auth().Refresh(cmd.Context())
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), s.User, func(w io.Writer) {
				fmt.Fprintln(w, "Session refreshed")
			})
		},
	}
}

func newWhoamiCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client := opts.app.Auth()

			if err := client.RequireAuth(ctx); err != nil {
				return err
			}

			u := client.CurrentUser()
			return opts.print(cmd.OutOrStdout(), u, func(w io.Writer) {
				printUser(w, u)

				claims := client.Decode(client.AccessToken(ctx))
				switch {
				case claims == nil || claims.ExpiresAt == nil:
					// nothing to report
				case client.IsExpired(client.AccessToken(ctx)):
					fmt.Fprintln(w, "token: expired")
				case client.ShouldRefresh(ctx):
					fmt.Fprintf(w, "token: expires soon (%s)\n", claims.ExpiresAt.Format(time.RFC3339))
				default:
					fmt.Fprintf(w, "token: valid until %s\n", claims.ExpiresAt.Format(time.RFC3339))
				}
			})
		},
	}
}

func newTokenCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect tokens",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "decode [token]",
		Short: "Print the claims of a token (the stored access token by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.app.Auth()

			token := client.AccessToken(cmd.Context())
			if len(args) == 1 {
				token = args[0]
			}
			if token == "" {
				return client.RequireAuth(cmd.Context())
			}

			claims := client.Decode(token)
			if claims == nil {
				return errors.New("token could not be decoded")
			}

			return printJSON(cmd.OutOrStdout(), claims)
		},
	})

	return cmd
}
