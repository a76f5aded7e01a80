package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

func (rt *runtime) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Open a page of the portal by its path",
		Long: `Open a page of the portal by its path, the same way the web application
would. Protected pages check the session first: without a login you are sent
to /login, and students opening /admin pages land on their dashboard.

Examples:
  workshops open /
  workshops open "/workshops?status=upcoming&grade=8"
  workshops open /admin/registrations?status=pending`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.show(cmd.Context(), args[0])
		},
	}
}

func (rt *runtime) workshopsCmd() *cobra.Command {
	var (
		status, search   string
		grade, skip, lim int
		featured         bool
	)

	cmd := &cobra.Command{
		Use:     "workshops",
		Aliases: []string{"list"},
		Short:   "Browse the workshop catalogue",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			if status != "" {
				q.Set("status", status)
			}
			if search != "" {
				q.Set("search", search)
			}
			if grade > 0 {
				q.Set("grade", strconv.Itoa(grade))
			}
			if skip > 0 {
				q.Set("skip", strconv.Itoa(skip))
			}
			if lim > 0 {
				q.Set("limit", strconv.Itoa(lim))
			}
			if cmd.Flags().Changed("featured") {
				q.Set("featured", strconv.FormatBool(featured))
			}
			target := "/workshops"
			if len(q) > 0 {
				target += "?" + q.Encode()
			}
			return rt.show(cmd.Context(), target)
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "upcoming, ongoing, completed or cancelled")
	f.StringVar(&search, "search", "", "search in title and description")
	f.IntVar(&grade, "grade", 0, "only workshops open to this grade")
	f.BoolVar(&featured, "featured", false, "only featured workshops")
	f.IntVar(&skip, "skip", 0, "skip the first N workshops")
	f.IntVar(&lim, "limit", 0, "show at most N workshops")
	return cmd
}

func (rt *runtime) workshopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workshop <id>",
		Short: "Show workshop details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.show(cmd.Context(), "/workshops/"+url.PathEscape(args[0]))
		},
	}
}

func (rt *runtime) enrollCmd() *cobra.Command {
	var in models.RegistrationInput

	cmd := &cobra.Command{
		Use:   "enroll <workshop-id>",
		Short: "Register for a workshop",
		Long: `Register for a workshop. Guests fill in every field; for logged in
students the form is completed from the profile and flags only override it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := rt.app.Pages.RegistrationFormData(cmd.Context(), args[0])
			if err != nil {
				return rt.show(cmd.Context(), "/registration/"+url.PathEscape(args[0]))
			}
			if _, err := rt.app.Open("/registration/" + url.PathEscape(form.Workshop.ID)); err != nil {
				return err
			}
			in.WorkshopID = form.Workshop.ID
			out := rt.app.Pages.SubmitRegistration(cmd.Context(), in)
			return rt.finish(cmd.Context(), out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.FullName, "full-name", "", "student full name")
	f.StringVarP(&in.Email, "email", "e", "", "contact email")
	f.IntVar(&in.Grade, "grade", 0, "school grade (1-12)")
	f.StringVar(&in.School, "school", "", "school name")
	f.StringVar(&in.Phone, "phone", "", "phone number")
	f.StringVar(&in.ParentName, "parent-name", "", "parent or guardian name")
	f.StringVar(&in.ParentPhone, "parent-phone", "", "parent or guardian phone")
	return cmd
}

func (rt *runtime) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open your dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.show(cmd.Context(), "/dashboard")
		},
	}
}

func (rt *runtime) registrationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "registrations",
		Short: "List your workshop registrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.show(cmd.Context(), "/dashboard/registrations")
		},
	}
}

func (rt *runtime) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <registration-id>",
		Short: "Cancel one of your registrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const page = "/dashboard/registrations"
			if err := rt.requireAccess(cmd, page); err != nil {
				return err
			}
			out := rt.app.Pages.CancelRegistration(cmd.Context(), args[0])
			if out.OK {
				out.Navigate = page
			}
			return rt.finish(cmd.Context(), out)
		},
	}
}

func (rt *runtime) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.show(cmd.Context(), "/dashboard/profile")
		},
	}
	cmd.AddCommand(rt.profileUpdateCmd())
	return cmd
}

func (rt *runtime) profileUpdateCmd() *cobra.Command {
	var (
		fullName, school, phone, parentName, parentPhone string
		grade                                            int
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		Long: `Update your profile. Only the flags you pass are changed.

Examples:
  workshops profile update --grade 9 --school "City School"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			const page = "/dashboard/profile"
			if err := rt.requireAccess(cmd, page); err != nil {
				return err
			}

			f := cmd.Flags()
			var upd models.ProfileUpdate
			if f.Changed("full-name") {
				upd.FullName = &fullName
			}
			if f.Changed("grade") {
				upd.Grade = &grade
			}
			if f.Changed("school") {
				upd.School = &school
			}
			if f.Changed("phone") {
				upd.Phone = &phone
			}
			if f.Changed("parent-name") {
				upd.ParentName = &parentName
			}
			if f.Changed("parent-phone") {
				upd.ParentPhone = &parentPhone
			}
			if upd.IsEmpty() {
				rt.println(rt.r.Hint("Nothing to update"))
				return nil
			}

			out := rt.app.Auth.UpdateProfile(cmd.Context(), upd)
			if out.OK {
				out.Navigate = page
			}
			return rt.finish(cmd.Context(), out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&fullName, "full-name", "", "full name")
	f.IntVar(&grade, "grade", 0, "school grade (1-12)")
	f.StringVar(&school, "school", "", "school name")
	f.StringVar(&phone, "phone", "", "phone number")
	f.StringVar(&parentName, "parent-name", "", "parent or guardian name")
	f.StringVar(&parentPhone, "parent-phone", "", "parent or guardian phone")
	return cmd
}
