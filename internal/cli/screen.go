package cli

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/workshop-portal/internal/guard"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/navigation"
	"github.com/magabrotheeeer/workshop-portal/internal/pages"
)

var (
	// ErrActionFailed означает, что операция не удалась и пользователь уже
	// увидел причину в уведомлении или ошибках полей.
	ErrActionFailed = errors.New("action failed")
	// ErrLoadFailed означает, что данные экрана не загрузились.
	ErrLoadFailed = errors.New("page data could not be loaded")
)

// showAttempts ограничивает повторную отрисовку, когда загрузка данных
// сама увела навигатор (например, ответ 401 перевёл на вход).
const showAttempts = 2

// show открывает адрес через роутер приложения и рисует экран.
func (rt *runtime) show(ctx context.Context, target string) error {
	for attempt := 0; attempt < showAttempts; attempt++ {
		view, err := rt.app.Open(target)
		if err != nil {
			return err
		}
		rt.frame(view)

		loadErr := rt.render(ctx, view)
		if loadErr == nil {
			return nil
		}

		if current := rt.app.View().Target; current != view.Target {
			rt.printNotification()
			target = current
			continue
		}

		var le *pages.LoadError
		if errors.As(loadErr, &le) {
			rt.println(rt.r.LoadError(le.Message))
			return ErrLoadFailed
		}
		return loadErr
	}
	return nil
}

// frame рисует шапку и меню оформления экрана.
func (rt *runtime) frame(view navigation.View) {
	snap := rt.app.Session.Snapshot()
	rt.println(rt.r.Header(view.Chrome, snap))
	rt.println(rt.r.Menu(view.Menu, view.Target))
	if len(view.Redirects) > 0 {
		rt.println("→ " + view.Target)
	}
	rt.println("")
}

// render загружает данные страницы и выводит их.
func (rt *runtime) render(ctx context.Context, view navigation.View) error {
	if view.Decision.State == guard.Restoring {
		rt.println(rt.r.Loading())
		return nil
	}

	p := rt.app.Pages
	switch view.Route.Page {
	case navigation.PageHome:
		data, err := p.Home(ctx)
		if err != nil {
			return err
		}
		rt.println(rt.r.Section("Featured Workshops"))
		rt.println(rt.r.Workshops(data.Featured))
		rt.println(rt.r.Section("Upcoming Workshops"))
		rt.println(rt.r.Workshops(data.Upcoming))

	case navigation.PageWorkshopList:
		list, err := p.WorkshopList(ctx, filterFromQuery(view.Query))
		if err != nil {
			return err
		}
		rt.println(rt.r.Workshops(list))

	case navigation.PageWorkshopDetail, navigation.PageAdminWorkshopEdit:
		w, err := p.WorkshopDetail(ctx, view.Param("id"))
		if err != nil {
			return err
		}
		rt.println(rt.r.Workshop(w))

	case navigation.PageRegistration:
		form, err := p.RegistrationFormData(ctx, view.Param("workshopId"))
		if err != nil {
			return err
		}
		rt.println(rt.r.Workshop(form.Workshop))
		rt.println(rt.r.Hint("Submit with: workshops enroll " + form.Workshop.ID))

	case navigation.PageUserDashboard:
		data, err := p.UserDashboard(ctx)
		if err != nil {
			return err
		}
		if data.User != nil {
			rt.println(rt.r.Section("Welcome, " + data.User.FullName))
		}
		rt.println(rt.r.Section("My Registrations"))
		rt.println(rt.r.Registrations(data.Registrations, false))
		rt.println(rt.r.Section("Upcoming Workshops"))
		rt.println(rt.r.Workshops(data.Upcoming))

	case navigation.PageUserProfile:
		if u := rt.app.Session.CurrentUser(); u != nil {
			rt.println(rt.r.Profile(u))
		}

	case navigation.PageUserRegistrations:
		regs, err := p.MyRegistrations(ctx)
		if err != nil {
			return err
		}
		rt.println(rt.r.Registrations(regs, false))

	case navigation.PageAdminDashboard:
		stats, err := p.AdminDashboard(ctx)
		if err != nil {
			return err
		}
		rt.println(rt.r.Stats(stats))

	case navigation.PageAdminWorkshops:
		list, err := p.AdminWorkshops(ctx)
		if err != nil {
			return err
		}
		rt.println(rt.r.Workshops(list))

	case navigation.PageAdminRegistrations:
		data, err := p.AdminRegistrations(ctx)
		if err != nil {
			return err
		}
		rt.println(rt.r.Registrations(filterRegistrations(data.Registrations, view.Query), true))

	case navigation.PageAdminUsers:
		users, err := p.AdminUsers(ctx)
		if err != nil {
			return err
		}
		rt.println(rt.r.Users(users))

	case navigation.PageLogin:
		rt.println(rt.r.Hint("Log in with: workshops login --email <email> --password <password>"))
	case navigation.PageRegister:
		rt.println(rt.r.Hint("Create an account with: workshops register --help"))
	case navigation.PageForgotPassword:
		rt.println(rt.r.Hint("Request a reset code with: workshops forgot-password --email <email>"))
	case navigation.PageResetPassword:
		rt.println(rt.r.Hint("Set a new password with: workshops reset-password --email <email> --otp <code> --new-password <password>"))
	case navigation.PageAdminWorkshopNew:
		rt.println(rt.r.Hint("Create a workshop with: workshops admin create-workshop --help"))
	}
	return nil
}

// filterFromQuery читает фильтр каталога из query: status, grade,
// featured, search, skip, limit. Нечисловые значения игнорируются.
func filterFromQuery(q url.Values) models.WorkshopFilter {
	f := models.WorkshopFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
	if v, err := strconv.Atoi(q.Get("grade")); err == nil {
		f.Grade = v
	}
	if v, err := strconv.Atoi(q.Get("skip")); err == nil {
		f.Skip = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = v
	}
	if v, err := strconv.ParseBool(q.Get("featured")); err == nil {
		f.Featured = &v
	}
	return f
}

// filterRegistrations фильтрует заявки по workshop и status из query.
func filterRegistrations(list []models.Registration, q url.Values) []models.Registration {
	workshop, status := q.Get("workshop"), q.Get("status")
	if workshop == "" && status == "" {
		return list
	}
	out := make([]models.Registration, 0, len(list))
	for _, reg := range list {
		if workshop != "" && reg.WorkshopID != workshop {
			continue
		}
		if status != "" && !strings.EqualFold(reg.RegistrationStatus, status) {
			continue
		}
		out = append(out, reg)
	}
	return out
}
