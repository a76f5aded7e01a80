// Package layout выбирает оформление навигации для поддерева маршрутов и
// отдаёт пункты меню. Выбор зависит от флагов маршрута, а не от роли:
// проверка доступа остаётся за пакетом guard.
package layout

import (
	"strings"

	"github.com/magabrotheeeer/workshop-portal/internal/session"
)

// Chrome — вариант оформления.
type Chrome int

const (
	Public Chrome = iota
	UserDashboard
	AdminDashboard
)

func (c Chrome) String() string {
	switch c {
	case Public:
		return "public"
	case UserDashboard:
		return "user-dashboard"
	case AdminDashboard:
		return "admin-dashboard"
	default:
		return "unknown"
	}
}

// Иконки пунктов меню.
const (
	IconHome          = "home"
	IconWorkshops     = "workshops"
	IconDashboard     = "dashboard"
	IconRegistrations = "registrations"
	IconPerson        = "person"
	IconUsers         = "users"
	IconBack          = "back"
	IconLogin         = "login"
	IconRegister      = "register"
)

// MenuItem — пункт меню.
type MenuItem struct {
	Label string
	Icon  string
	Path  string
}

// Active сообщает, соответствует ли пункт текущему пути.
func (m MenuItem) Active(current string) bool {
	if i := strings.IndexAny(current, "?#"); i >= 0 {
		current = current[:i]
	}
	return current == m.Path
}

// Select выбирает оформление по флагам маршрута.
func Select(dashboard, admin bool) Chrome {
	switch {
	case dashboard && admin:
		return AdminDashboard
	case dashboard:
		return UserDashboard
	default:
		return Public
	}
}

var (
	userMenu = []MenuItem{
		{Label: "Dashboard", Icon: IconDashboard, Path: "/dashboard"},
		{Label: "My Registrations", Icon: IconRegistrations, Path: "/dashboard/registrations"},
		{Label: "My Profile", Icon: IconPerson, Path: "/dashboard/profile"},
	}
	adminMenu = []MenuItem{
		{Label: "Dashboard", Icon: IconDashboard, Path: "/admin"},
		{Label: "Workshops", Icon: IconWorkshops, Path: "/admin/workshops"},
		{Label: "Registrations", Icon: IconRegistrations, Path: "/admin/registrations"},
		{Label: "Users", Icon: IconUsers, Path: "/admin/users"},
	}
	backHome = MenuItem{Label: "Back to Home", Icon: IconBack, Path: "/"}
)

// Menu возвращает пункты меню оформления. Публичное меню зависит от сессии:
// вошедшему пользователю показывается ссылка на его панель.
func Menu(c Chrome, snap session.Snapshot) []MenuItem {
	switch c {
	case UserDashboard:
		return withBack(userMenu)
	case AdminDashboard:
		return withBack(adminMenu)
	}

	items := []MenuItem{
		{Label: "Home", Icon: IconHome, Path: "/"},
		{Label: "Workshops", Icon: IconWorkshops, Path: "/workshops"},
	}
	switch {
	case snap.IsAdmin():
		items = append(items, MenuItem{Label: "Dashboard", Icon: IconDashboard, Path: "/admin"})
	case snap.IsAuthenticated():
		items = append(items, MenuItem{Label: "Dashboard", Icon: IconDashboard, Path: "/dashboard"})
	default:
		items = append(items,
			MenuItem{Label: "Login", Icon: IconLogin, Path: "/login"},
			MenuItem{Label: "Register", Icon: IconRegister, Path: "/register"},
		)
	}
	return items
}

func withBack(items []MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items)+1)
	out = append(out, items...)
	return append(out, backHome)
}
