package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

const dateLayout = "02 Jan 2006"

func date(t models.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func grades(list []int) string {
	parts := make([]string, len(list))
	for i, g := range list {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, ",")
}

func fee(v float64) string {
	if v == 0 {
		return "Free"
	}
	return fmt.Sprintf("₹%.0f", v)
}

// Workshops рисует каталог мастерских.
func (r *Renderer) Workshops(list []models.Workshop) string {
	rows := make([][]string, 0, len(list))
	for _, w := range list {
		title := w.Title
		if w.Featured {
			title = "★ " + title
		}
		rows = append(rows, []string{
			w.ID, title, date(w.StartDate), grades(w.EligibleGrades),
			fee(w.Fee), strconv.Itoa(w.SeatsLeft()), w.Status,
		})
	}
	return r.Table(
		[]string{"ID", "Title", "Starts", "Grades", "Fee", "Seats", "Status"},
		rows, "No workshops found",
	)
}

// Workshop рисует карточку мастерской.
func (r *Renderer) Workshop(w *models.Workshop) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(w.Title))
	b.WriteString("\n")
	if w.ShortDescription != "" {
		b.WriteString(r.styles.Subtitle.Render(w.ShortDescription))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(w.Description)
	b.WriteString("\n\n")

	fields := [][2]string{
		{"Dates", date(w.StartDate) + " - " + date(w.EndDate)},
		{"Register by", date(w.RegistrationDeadline)},
		{"Location", w.Location},
		{"Grades", grades(w.EligibleGrades)},
		{"Fee", fee(w.Fee)},
		{"Seats left", fmt.Sprintf("%d of %d", w.SeatsLeft(), w.MaxParticipants)},
		{"Status", w.Status},
	}
	for _, f := range fields {
		b.WriteString(r.styles.Muted.Render(fmt.Sprintf("%-12s", f[0])))
		b.WriteString(f[1])
		b.WriteString("\n")
	}
	return r.styles.Border.Render(strings.TrimRight(b.String(), "\n"))
}

// Registrations рисует список заявок. Колонки Email и Name нужны только
// в панели администратора.
func (r *Renderer) Registrations(list []models.Registration, admin bool) string {
	headers := []string{"ID", "Workshop", "Status", "Payment", "Submitted"}
	if admin {
		headers = []string{"ID", "Workshop", "Name", "Email", "Grade", "Status", "Payment", "Submitted"}
	}
	rows := make([][]string, 0, len(list))
	for _, reg := range list {
		if admin {
			rows = append(rows, []string{
				reg.ID, reg.WorkshopID, reg.FullName, reg.Email, strconv.Itoa(reg.Grade),
				reg.RegistrationStatus, reg.PaymentStatus, date(reg.CreatedAt),
			})
			continue
		}
		rows = append(rows, []string{
			reg.ID, reg.WorkshopID, reg.RegistrationStatus, reg.PaymentStatus, date(reg.CreatedAt),
		})
	}
	return r.Table(headers, rows, "No registrations yet")
}

// Users рисует список пользователей.
func (r *Renderer) Users(list []models.UserProfile) string {
	rows := make([][]string, 0, len(list))
	for _, u := range list {
		active := "yes"
		if !u.IsActive {
			active = "no"
		}
		rows = append(rows, []string{u.ID, u.FullName, u.Email, u.Role.String(), active, date(u.CreatedAt)})
	}
	return r.Table([]string{"ID", "Name", "Email", "Role", "Active", "Joined"}, rows, "No users found")
}

// Profile рисует профиль пользователя.
func (r *Renderer) Profile(u *models.UserProfile) string {
	grade := "-"
	if u.Grade != nil {
		grade = strconv.Itoa(*u.Grade)
	}
	fields := [][2]string{
		{"Name", u.FullName},
		{"Email", u.Email},
		{"Role", u.Role.String()},
		{"Grade", grade},
		{"School", u.School},
		{"Phone", u.Phone},
		{"Parent", u.ParentName},
		{"Parent phone", u.ParentPhone},
	}
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(r.styles.Muted.Render(fmt.Sprintf("%-14s", f[0])))
		b.WriteString(f[1])
		b.WriteString("\n")
	}
	return r.styles.Border.Render(strings.TrimRight(b.String(), "\n"))
}

// Stats рисует сводку панели администратора и заявки за последние дни.
func (r *Renderer) Stats(s *models.DashboardStats) string {
	var b strings.Builder
	counters := [][2]string{
		{"Workshops", strconv.Itoa(s.TotalWorkshops)},
		{"Upcoming", strconv.Itoa(s.UpcomingWorkshops)},
		{"Users", strconv.Itoa(s.TotalUsers)},
		{"Registrations", strconv.Itoa(s.TotalRegistrations)},
		{"Pending", strconv.Itoa(s.PendingRegistrations)},
	}
	for _, c := range counters {
		b.WriteString(r.styles.Muted.Render(fmt.Sprintf("%-15s", c[0])))
		b.WriteString(r.styles.Header.Render(c[1]))
		b.WriteString("\n")
	}

	rows := make([][]string, 0, len(s.DailyRegistrations))
	for _, d := range s.DailyRegistrations {
		rows = append(rows, []string{d.Date, strconv.Itoa(d.Count), strings.Repeat("█", d.Count)})
	}
	b.WriteString("\n")
	b.WriteString(r.Table([]string{"Date", "Count", ""}, rows, "No registrations in the last days"))
	return b.String()
}
