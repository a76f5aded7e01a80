package cli

import (
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

func (rt *runtime) loginCmd() *cobra.Command {
	var email, password, next string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Long: `Log in to the portal. The access token is saved to the token store
and used by later commands until you log out or it expires.

After logging in you land on your dashboard (administrators on the admin
panel), or on --next when it names a page of the portal.

Examples:
  workshops login --email student@example.com --password secret123
  workshops login --email admin@example.com --password secret123 --next /admin/users`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := rt.app.Auth.Login(cmd.Context(), email, password, next)
			return rt.finish(cmd.Context(), out)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&next, "next", "", "page to open after login")
	return cmd
}

func (rt *runtime) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := rt.app.Auth.Logout(cmd.Context())
			return rt.finish(cmd.Context(), out)
		},
	}
}

func (rt *runtime) registerCmd() *cobra.Command {
	var req models.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a student account",
		Long: `Create a student account. All fields are required.
Registration does not log you in: use "workshops login" afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := rt.app.Auth.Register(cmd.Context(), req)
			return rt.finish(cmd.Context(), out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.FullName, "full-name", "", "student full name")
	f.StringVarP(&req.Email, "email", "e", "", "email")
	f.StringVarP(&req.Password, "password", "p", "", "password, at least 8 characters")
	f.IntVar(&req.Grade, "grade", 0, "school grade (1-12)")
	f.StringVar(&req.School, "school", "", "school name")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&req.ParentName, "parent-name", "", "parent or guardian name")
	f.StringVar(&req.ParentPhone, "parent-phone", "", "parent or guardian phone")
	return cmd
}

func (rt *runtime) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !rt.app.Session.IsAuthenticated() {
				rt.println(rt.r.Hint("Not logged in"))
				return nil
			}
			profile, err := rt.app.Auth.RefreshProfile(cmd.Context())
			if err != nil {
				// 401 уже сбросил сессию и перевёл на вход
				if !rt.app.Session.IsAuthenticated() {
					rt.printNotification()
					rt.println(rt.r.Hint("Not logged in"))
					return ErrActionFailed
				}
				rt.log.Debug("profile refresh failed, showing cached profile")
				profile = rt.app.Session.CurrentUser()
			}
			rt.println(rt.r.Profile(profile))
			return nil
		},
	}
}

func (rt *runtime) forgotPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset code by email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := rt.app.Auth.RequestPasswordReset(cmd.Context(), email)
			return rt.finish(cmd.Context(), out)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (rt *runtime) resetPasswordCmd() *cobra.Command {
	var email, otp, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with the emailed code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := rt.app.Auth.ConfirmPasswordReset(cmd.Context(), email, otp, password)
			return rt.finish(cmd.Context(), out)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&otp, "otp", "", "6-digit code from the email")
	cmd.Flags().StringVar(&password, "new-password", "", "new password, at least 8 characters")
	return cmd
}

func (rt *runtime) changePasswordCmd() *cobra.Command {
	var oldPassword, newPassword string

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the password of the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.requireAccess(cmd, "/dashboard/profile"); err != nil {
				return err
			}
			out := rt.app.Auth.ChangePassword(cmd.Context(), oldPassword, newPassword)
			return rt.finish(cmd.Context(), out)
		},
	}
	cmd.Flags().StringVar(&oldPassword, "old-password", "", "current password")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "new password, at least 8 characters")
	return cmd
}

// requireAccess открывает защищённую страницу, к которой относится
// действие. Если проверка доступа увела на другой адрес, рисуется этот
// адрес, а действие не выполняется.
func (rt *runtime) requireAccess(cmd *cobra.Command, page string) error {
	view, err := rt.app.Open(page)
	if err != nil {
		return err
	}
	if view.Target == page {
		return nil
	}
	rt.frame(view)
	if err := rt.render(cmd.Context(), view); err != nil {
		return err
	}
	return ErrActionFailed
}
