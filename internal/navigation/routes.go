// Package navigation описывает маршруты приложения, сопоставляет с ними
// пути и применяет проверки доступа, следуя перенаправлениям.
package navigation

import "github.com/magabrotheeeer/workshop-portal/internal/guard"

// Page — страница, которую показывает маршрут.
type Page string

const (
	PageHome               Page = "home"
	PageWorkshopList       Page = "workshop-list"
	PageWorkshopDetail     Page = "workshop-detail"
	PageRegister           Page = "register"
	PageLogin              Page = "login"
	PageForgotPassword     Page = "forgot-password"
	PageResetPassword      Page = "reset-password"
	PageRegistration       Page = "registration"
	PageUserDashboard      Page = "user-dashboard"
	PageUserProfile        Page = "user-profile"
	PageUserRegistrations  Page = "user-registrations"
	PageAdminDashboard     Page = "admin-dashboard"
	PageAdminWorkshops     Page = "admin-workshops"
	PageAdminWorkshopNew   Page = "admin-workshop-new"
	PageAdminWorkshopEdit  Page = "admin-workshop-edit"
	PageAdminRegistrations Page = "admin-registrations"
	PageAdminUsers         Page = "admin-users"
)

// FallbackPath — куда ведут неизвестные пути.
const FallbackPath = "/"

// Route — маршрут. Pattern записывается в синтаксисе chi: /workshops/{id}.
type Route struct {
	Pattern string
	Page    Page
	// Guard — проверка доступа, nil для публичных маршрутов.
	Guard *guard.Guard
	// Dashboard и Admin выбирают оформление поддерева.
	Dashboard bool
	Admin     bool
}

// DefaultRoutes возвращает таблицу маршрутов приложения.
func DefaultRoutes() []Route {
	authenticated := guard.Authenticated()
	admin := guard.Admin()

	public := func(pattern string, page Page) Route {
		return Route{Pattern: pattern, Page: page}
	}
	user := func(pattern string, page Page) Route {
		return Route{Pattern: pattern, Page: page, Guard: &authenticated, Dashboard: true}
	}
	adminOnly := func(pattern string, page Page) Route {
		return Route{Pattern: pattern, Page: page, Guard: &admin, Dashboard: true, Admin: true}
	}

	return []Route{
		public("/", PageHome),
		public("/workshops", PageWorkshopList),
		public("/workshops/{id}", PageWorkshopDetail),
		public("/register", PageRegister),
		public("/login", PageLogin),
		public("/forgot-password", PageForgotPassword),
		public("/reset-password", PageResetPassword),
		public("/registration/{workshopId}", PageRegistration),

		user("/dashboard", PageUserDashboard),
		user("/dashboard/profile", PageUserProfile),
		user("/dashboard/registrations", PageUserRegistrations),

		adminOnly("/admin", PageAdminDashboard),
		adminOnly("/admin/workshops", PageAdminWorkshops),
		adminOnly("/admin/workshops/new", PageAdminWorkshopNew),
		adminOnly("/admin/workshops/edit/{id}", PageAdminWorkshopEdit),
		adminOnly("/admin/registrations", PageAdminRegistrations),
		adminOnly("/admin/users", PageAdminUsers),
	}
}
