// Package ui отрисовывает клиент в терминале: баннер уведомления,
// шапку оформления, меню и таблицы.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/magabrotheeeer/workshop-portal/internal/layout"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/session"
)

// Styles — стили lipgloss, которыми рисуется клиент.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Active   lipgloss.Style
	Header   lipgloss.Style
	Border   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Warning  lipgloss.Style
}

// DefaultStyles возвращает стили по умолчанию.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Active: lipgloss.NewStyle().
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("230")).
			Bold(true).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Info:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")),
	}
}

// Renderer собирает строки для вывода в терминал.
type Renderer struct {
	styles Styles
}

// New создаёт Renderer со стилями по умолчанию.
func New() *Renderer {
	return &Renderer{styles: DefaultStyles()}
}

// NewWithStyles создаёт Renderer с заданными стилями.
func NewWithStyles(s Styles) *Renderer {
	return &Renderer{styles: s}
}

var severityIcons = map[models.Severity]string{
	models.SeveritySuccess: "✅",
	models.SeverityError:   "❌",
	models.SeverityInfo:    "ℹ️ ",
	models.SeverityWarning: "⚠️ ",
}

func (r *Renderer) severityStyle(s models.Severity) lipgloss.Style {
	switch s {
	case models.SeveritySuccess:
		return r.styles.Success
	case models.SeverityError:
		return r.styles.Error
	case models.SeverityWarning:
		return r.styles.Warning
	default:
		return r.styles.Info
	}
}

// Notification рисует баннер уведомления в рамке цвета важности.
func (r *Renderer) Notification(n models.Notification) string {
	style := r.severityStyle(n.Severity)
	body := style.Render(severityIcons[n.Severity] + " " + n.Message)
	return r.styles.Border.
		BorderForeground(style.GetForeground()).
		Render(body)
}

// Header рисует шапку оформления: название раздела и текущего пользователя.
func (r *Renderer) Header(c layout.Chrome, snap session.Snapshot) string {
	var title string
	switch c {
	case layout.AdminDashboard:
		title = "🛠  Admin Panel"
	case layout.UserDashboard:
		title = "🎓 My Dashboard"
	default:
		title = "🔬 Science Workshops"
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render(title))
	switch {
	case snap.RestoreInProgress:
		b.WriteString("  " + r.styles.Muted.Render("restoring session..."))
	case snap.IsAuthenticated():
		u := snap.User
		b.WriteString("  " + r.styles.Subtitle.Render(fmt.Sprintf("%s (%s)", u.FullName, u.Role)))
	default:
		b.WriteString("  " + r.styles.Muted.Render("guest"))
	}
	return b.String()
}

var menuIcons = map[string]string{
	layout.IconHome:          "🏠",
	layout.IconWorkshops:     "🔬",
	layout.IconDashboard:     "📊",
	layout.IconRegistrations: "📝",
	layout.IconPerson:        "👤",
	layout.IconUsers:         "👥",
	layout.IconBack:          "↩",
	layout.IconLogin:         "🔑",
	layout.IconRegister:      "✍",
}

// Menu рисует пункты меню в одну строку, выделяя активный пункт.
func (r *Renderer) Menu(items []layout.MenuItem, current string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		label := menuIcons[item.Icon] + " " + item.Label
		if item.Active(current) {
			parts = append(parts, r.styles.Active.Render(label))
			continue
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, r.styles.Muted.Render("  │  "))
}

// Loading рисует заглушку на время восстановления сессии.
func (r *Renderer) Loading() string {
	return r.styles.Muted.Render("⏳ Loading...")
}

// FieldErrors рисует ошибки формы по полям в алфавитном порядке.
func (r *Renderer) FieldErrors(fields map[string]string) string {
	keys := sortedKeys(fields)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, r.styles.Error.Render(k+": ")+fields[k])
	}
	return strings.Join(lines, "\n")
}

// LoadError рисует ошибку загрузки страницы.
func (r *Renderer) LoadError(msg string) string {
	return r.styles.Error.Render("❌ " + msg)
}

// Section рисует заголовок блока экрана.
func (r *Renderer) Section(title string) string {
	return "\n" + r.styles.Header.Render(title)
}

// Hint рисует подсказку.
func (r *Renderer) Hint(text string) string {
	return r.styles.Muted.Render(text)
}
