package navigation

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/workshop-portal/internal/guard"
	"github.com/magabrotheeeer/workshop-portal/internal/layout"
	"github.com/magabrotheeeer/workshop-portal/internal/session"
)

// ErrTooManyRedirects возвращается, если перенаправления зациклились.
var ErrTooManyRedirects = errors.New("too many redirects")

const maxRedirects = 5

// Match — путь, сопоставленный с маршрутом.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
	Query  url.Values
}

// Param возвращает параметр пути.
func (m Match) Param(name string) string {
	return m.Params[name]
}

// View — то, что нужно показать по запрошенному адресу.
type View struct {
	Match
	// Target — итоговый адрес после перенаправлений.
	Target    string
	Chrome    layout.Chrome
	Menu      []layout.MenuItem
	Decision  guard.Decision
	Redirects []string
}

// Router сопоставляет пути с маршрутами через дерево маршрутов chi.
type Router struct {
	mux    *chi.Mux
	routes map[string]Route
}

// NewRouter строит роутер. Повтор шаблона приводит к панике, как в chi.
func NewRouter(routes []Route) *Router {
	r := &Router{
		mux:    chi.NewRouter(),
		routes: make(map[string]Route, len(routes)),
	}
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	for _, route := range routes {
		if _, exists := r.routes[route.Pattern]; exists {
			panic(fmt.Sprintf("navigation: duplicate route %q", route.Pattern))
		}
		r.routes[route.Pattern] = route
		r.mux.Handle(route.Pattern, noop)
	}
	return r
}

// Match ищет маршрут для адреса (путь и, возможно, query).
func (r *Router) Match(target string) (Match, bool) {
	u, err := url.Parse(target)
	if err != nil {
		return Match{}, false
	}
	path := normalize(u.Path)

	rctx := chi.NewRouteContext()
	if !r.mux.Match(rctx, http.MethodGet, path) {
		return Match{}, false
	}
	route, ok := r.routes[rctx.RoutePattern()]
	if !ok {
		return Match{}, false
	}

	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	return Match{Route: route, Path: path, Params: params, Query: u.Query()}, true
}

// Resolve сопоставляет адрес и применяет проверку доступа, следуя
// перенаправлениям. Неизвестный путь ведёт на главную. Пока сессия
// восстанавливается, защищённый маршрут возвращается в состоянии
// Restoring без перенаправления.
func (r *Router) Resolve(snap session.Snapshot, target string) (View, error) {
	const op = "navigation.Router.Resolve"

	var redirects []string
	for i := 0; i <= maxRedirects; i++ {
		m, ok := r.Match(target)
		if !ok {
			redirects = append(redirects, FallbackPath)
			target = FallbackPath
			continue
		}

		decision := guard.Decision{State: guard.Granted}
		if m.Route.Guard != nil {
			decision = m.Route.Guard.Evaluate(snap, target)
		}
		if decision.State == guard.Denied {
			redirects = append(redirects, decision.Redirect)
			target = decision.Redirect
			continue
		}

		chrome := layout.Select(m.Route.Dashboard, m.Route.Admin)
		return View{
			Match:     m,
			Target:    target,
			Chrome:    chrome,
			Menu:      layout.Menu(chrome, snap),
			Decision:  decision,
			Redirects: redirects,
		}, nil
	}
	return View{}, fmt.Errorf("%s: %w: %s", op, ErrTooManyRedirects, strings.Join(redirects, " -> "))
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
