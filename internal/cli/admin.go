package cli

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

const (
	adminPath              = "/admin"
	adminWorkshopsPath     = "/admin/workshops"
	adminRegistrationsPath = "/admin/registrations"
	adminUsersPath         = "/admin/users"
)

func (rt *runtime) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer workshops, registrations and users",
		Long: `Administer the portal. Every subcommand requires an administrator
login; students are sent back to their dashboard.

Without a subcommand the admin dashboard statistics are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.show(cmd.Context(), adminPath)
		},
	}
	cmd.AddCommand(
		rt.adminWorkshopsCmd(),
		rt.adminCreateWorkshopCmd(),
		rt.adminEditWorkshopCmd(),
		rt.adminDeleteWorkshopCmd(),
		rt.adminRegistrationsCmd(),
		rt.adminReviewCmd(),
		rt.adminExportCmd(),
		rt.adminUsersCmd(),
		rt.adminUpdateUserCmd(),
	)
	return cmd
}

func (rt *runtime) adminWorkshopsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workshops",
		Short: "List all workshops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.show(cmd.Context(), adminWorkshopsPath)
		},
	}
}

// workshopFlags — флаги формы мастерской. Даты принимаются как
// 2006-01-02 или 2006-01-02T15:04.
type workshopFlags struct {
	in                   models.WorkshopInput
	start, end, deadline string
}

func (w *workshopFlags) register(f *pflag.FlagSet) {
	f.StringVar(&w.in.Title, "title", "", "title")
	f.StringVar(&w.in.Description, "description", "", "full description")
	f.StringVar(&w.in.ShortDescription, "short-description", "", "one line summary")
	f.StringVar(&w.in.ImageURL, "image-url", "", "cover image URL")
	f.StringVar(&w.start, "start", "", "start date")
	f.StringVar(&w.end, "end", "", "end date")
	f.StringVar(&w.deadline, "deadline", "", "registration deadline")
	f.StringVar(&w.in.Location, "location", "", "location")
	f.IntVar(&w.in.MaxParticipants, "max-participants", 0, "number of seats")
	f.Float64Var(&w.in.Fee, "fee", 0, "fee, 0 for free workshops")
	f.IntSliceVar(&w.in.EligibleGrades, "grades", nil, "eligible grades, e.g. 6,7,8")
	f.BoolVar(&w.in.Featured, "featured", false, "show on the home page")
	f.StringVar(&w.in.Status, "status", models.WorkshopUpcoming, "upcoming, ongoing, completed or cancelled")
}

// apply переносит в in только заданные флаги.
func (w *workshopFlags) apply(f *pflag.FlagSet, in *models.WorkshopInput) error {
	dates := []struct {
		flag  string
		value string
		dst   *models.Timestamp
	}{
		{"start", w.start, &in.StartDate},
		{"end", w.end, &in.EndDate},
		{"deadline", w.deadline, &in.RegistrationDeadline},
	}
	for _, d := range dates {
		if !f.Changed(d.flag) {
			continue
		}
		ts, err := parseDate(d.value)
		if err != nil {
			return fmt.Errorf("--%s: %w", d.flag, err)
		}
		*d.dst = ts
	}

	set := func(name string, fn func()) {
		if f.Changed(name) {
			fn()
		}
	}
	set("title", func() { in.Title = w.in.Title })
	set("description", func() { in.Description = w.in.Description })
	set("short-description", func() { in.ShortDescription = w.in.ShortDescription })
	set("image-url", func() { in.ImageURL = w.in.ImageURL })
	set("location", func() { in.Location = w.in.Location })
	set("max-participants", func() { in.MaxParticipants = w.in.MaxParticipants })
	set("fee", func() { in.Fee = w.in.Fee })
	set("grades", func() { in.EligibleGrades = w.in.EligibleGrades })
	set("featured", func() { in.Featured = w.in.Featured })
	set("status", func() { in.Status = w.in.Status })
	return nil
}

var dateLayouts = []string{"2006-01-02T15:04", "2006-01-02"}

func parseDate(s string) (models.Timestamp, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.NewTimestamp(t), nil
		}
	}
	return models.Timestamp{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD or YYYY-MM-DDTHH:MM", s)
}

func (rt *runtime) adminCreateWorkshopCmd() *cobra.Command {
	var w workshopFlags

	cmd := &cobra.Command{
		Use:   "create-workshop",
		Short: "Create a workshop",
		Long: `Create a workshop.

Examples:
  workshops admin create-workshop --title "Robotics" --description "..." \
    --short-description "Build a robot" --image-url https://img/robot.png \
    --start 2025-07-01 --end 2025-07-05 --deadline 2025-06-25 \
    --location "Lab 3" --max-participants 20 --grades 7,8,9`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.requireAccess(cmd, "/admin/workshops/new"); err != nil {
				return err
			}
			in := models.WorkshopInput{Status: models.WorkshopUpcoming}
			if err := w.apply(cmd.Flags(), &in); err != nil {
				return err
			}
			out := rt.app.Pages.SaveWorkshop(cmd.Context(), "", in)
			return rt.finish(cmd.Context(), out)
		},
	}
	w.register(cmd.Flags())
	return cmd
}

func (rt *runtime) adminEditWorkshopCmd() *cobra.Command {
	var w workshopFlags

	cmd := &cobra.Command{
		Use:   "edit-workshop <id>",
		Short: "Change a workshop",
		Long:  `Change a workshop. Only the flags you pass are changed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := rt.requireAccess(cmd, "/admin/workshops/edit/"+url.PathEscape(id)); err != nil {
				return err
			}
			current, err := rt.app.Pages.WorkshopDetail(cmd.Context(), id)
			if err != nil {
				rt.println(rt.r.LoadError(err.Error()))
				return ErrLoadFailed
			}
			in := inputFrom(current)
			if err := w.apply(cmd.Flags(), &in); err != nil {
				return err
			}
			out := rt.app.Pages.SaveWorkshop(cmd.Context(), id, in)
			return rt.finish(cmd.Context(), out)
		},
	}
	w.register(cmd.Flags())
	return cmd
}

func inputFrom(w *models.Workshop) models.WorkshopInput {
	return models.WorkshopInput{
		Title:                w.Title,
		Description:          w.Description,
		ShortDescription:     w.ShortDescription,
		ImageURL:             w.ImageURL,
		StartDate:            w.StartDate,
		EndDate:              w.EndDate,
		RegistrationDeadline: w.RegistrationDeadline,
		Location:             w.Location,
		MaxParticipants:      w.MaxParticipants,
		Fee:                  w.Fee,
		EligibleGrades:       w.EligibleGrades,
		Featured:             w.Featured,
		Status:               w.Status,
	}
}

func (rt *runtime) adminDeleteWorkshopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-workshop <id>",
		Short: "Delete a workshop without registrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAccess(cmd, adminWorkshopsPath); err != nil {
				return err
			}
			out := rt.app.Pages.DeleteWorkshop(cmd.Context(), args[0])
			if out.OK {
				out.Navigate = adminWorkshopsPath
			}
			return rt.finish(cmd.Context(), out)
		},
	}
}

func (rt *runtime) adminRegistrationsCmd() *cobra.Command {
	var workshop, status string

	cmd := &cobra.Command{
		Use:   "registrations",
		Short: "List all registrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			if workshop != "" {
				q.Set("workshop", workshop)
			}
			if status != "" {
				q.Set("status", status)
			}
			target := adminRegistrationsPath
			if len(q) > 0 {
				target += "?" + q.Encode()
			}
			return rt.show(cmd.Context(), target)
		},
	}
	cmd.Flags().StringVar(&workshop, "workshop", "", "only registrations for this workshop id")
	cmd.Flags().StringVar(&status, "status", "", "pending, approved or rejected")
	return cmd
}

func (rt *runtime) adminReviewCmd() *cobra.Command {
	var status, notes string

	cmd := &cobra.Command{
		Use:   "review <registration-id>",
		Short: "Approve or reject a registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAccess(cmd, adminRegistrationsPath); err != nil {
				return err
			}
			out := rt.app.Pages.ReviewRegistration(cmd.Context(), args[0], status, notes)
			if out.OK {
				out.Navigate = adminRegistrationsPath
			}
			return rt.finish(cmd.Context(), out)
		},
	}
	cmd.Flags().StringVar(&status, "status", models.RegistrationApproved, "approved or rejected")
	cmd.Flags().StringVar(&notes, "notes", "", "note for the record")
	return cmd
}

func (rt *runtime) adminExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <workshop-id>",
		Short: "Export registrations of a workshop as CSV",
		Long: `Export registrations of a workshop as CSV. Without --output the file is
written to the current directory under the name suggested by the server;
"-" writes to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAccess(cmd, adminRegistrationsPath); err != nil {
				return err
			}
			export, out := rt.app.Pages.ExportRegistrations(cmd.Context(), args[0])
			if !out.OK {
				return rt.finish(cmd.Context(), out)
			}

			if output == "-" {
				fmt.Fprint(rt.out, export.Content)
				return nil
			}
			target := output
			if target == "" {
				target = export.Filename
			}
			if err := os.WriteFile(target, []byte(export.Content), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			rt.printNotification()
			rt.println(rt.r.Hint("Saved to " + target))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `file to write, "-" for standard output`)
	return cmd
}

func (rt *runtime) adminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.show(cmd.Context(), adminUsersPath)
		},
	}
}

func (rt *runtime) adminUpdateUserCmd() *cobra.Command {
	var (
		role   string
		active bool
	)

	cmd := &cobra.Command{
		Use:   "update-user <user-id>",
		Short: "Change the role or status of a user",
		Long: `Change the role or the active flag of a user.

Examples:
  workshops admin update-user 42 --role admin
  workshops admin update-user 42 --active=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireAccess(cmd, adminUsersPath); err != nil {
				return err
			}
			var upd models.UserUpdate
			if cmd.Flags().Changed("role") {
				r := models.Role(role)
				upd.Role = &r
			}
			if cmd.Flags().Changed("active") {
				upd.IsActive = &active
			}
			if upd.IsEmpty() {
				rt.println(rt.r.Hint("Nothing to update"))
				return nil
			}
			out := rt.app.Pages.UpdateUser(cmd.Context(), args[0], upd)
			if out.OK {
				out.Navigate = adminUsersPath
			}
			return rt.finish(cmd.Context(), out)
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "user, organizer or admin")
	cmd.Flags().BoolVar(&active, "active", true, "whether the account may log in")
	return cmd
}
