// Package portal собирает клиент платформы из конфигурации: хранилище
// токена, сессию, цепочку транспорта с обработкой 401, клиенты API,
// навигацию и уведомления.
package portal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/workshop-portal/internal/authclient"
	"github.com/magabrotheeeer/workshop-portal/internal/config"
	"github.com/magabrotheeeer/workshop-portal/internal/guard"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/metrics"
	"github.com/magabrotheeeer/workshop-portal/internal/navigation"
	"github.com/magabrotheeeer/workshop-portal/internal/notify"
	"github.com/magabrotheeeer/workshop-portal/internal/pages"
	"github.com/magabrotheeeer/workshop-portal/internal/restclient"
	"github.com/magabrotheeeer/workshop-portal/internal/session"
	"github.com/magabrotheeeer/workshop-portal/internal/tokenstore"
	"github.com/magabrotheeeer/workshop-portal/internal/transport"
)

// MsgSessionExpired показывается, когда API отклонил токен.
const MsgSessionExpired = "Your session has expired. Please log in again."

// Options — зависимости, которые можно подменить. Пустые поля
// заполняются из конфигурации.
type Options struct {
	// Transport — базовый http.RoundTripper, по умолчанию http.DefaultTransport.
	Transport http.RoundTripper
	// Slot — хранилище токена вместо token_store из конфигурации.
	Slot tokenstore.Store
	// Registry — куда регистрировать клиентские метрики.
	Registry prometheus.Registerer
	// Start — начальный адрес навигатора.
	Start string
}

// App — собранный клиент.
type App struct {
	log *slog.Logger

	Session       *session.Store
	Notifications *notify.Channel
	Navigator     *navigation.Navigator
	Router        *navigation.Router
	API           *restclient.Client
	Auth          *authclient.Client
	Pages         *pages.Pages
	Metrics       *metrics.Client

	slot tokenstore.Store

	mu        sync.Mutex
	view      navigation.View
	stopWatch func()
}

// New собирает клиент. Сессия остаётся в состоянии восстановления до вызова Boot.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, opts Options) (*App, error) {
	const op = "portal.New"
	log = sl.OrDiscard(log)

	slot := opts.Slot
	if slot == nil {
		var err error
		slot, err = tokenstore.New(ctx, cfg.TokenStore)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	a := &App{
		log:           log,
		slot:          slot,
		Session:       session.New(log, slot),
		Notifications: notify.New(cfg.Notifications.DisplayDuration),
		Navigator:     navigation.NewNavigator(opts.Start),
		Router:        navigation.NewRouter(navigation.DefaultRoutes()),
		Metrics:       metrics.NewClient(registry),
	}

	rt := transport.Chain(base,
		transport.RequestID(),
		transport.Logging(log),
		transport.Metrics(a.Metrics),
		transport.Bearer(a.Session),
		transport.Unauthorized(a.onUnauthorized),
	)
	a.API = restclient.New(cfg.API.BaseURL, rt, cfg.API.Timeout, log)
	a.Auth = authclient.New(log, a.API, a.Session, a.Notifications)
	a.Pages = pages.New(log, a.API, a.Session, a.Notifications)

	return a, nil
}

// Boot восстанавливает сессию из сохранённого токена. Восстановление
// выполняется один раз за время жизни App.
func (a *App) Boot(ctx context.Context) error {
	const op = "portal.Boot"

	if err := a.Auth.Restore(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// onUnauthorized — реакция на любой 401, кроме входа и восстановления:
// сессия сбрасывается, пользователь уходит на страницу входа, если он
// ещё не на ней.
func (a *App) onUnauthorized(req *http.Request) {
	const op = "portal.onUnauthorized"
	log := a.log.With(slog.String("op", op))

	log.Info("unauthorized response, clearing session",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)
	a.Metrics.SessionCleared.Inc()

	if err := a.Session.ClearSession(context.WithoutCancel(req.Context())); err != nil {
		log.Error("failed to clear session", sl.Err(err))
	}
	a.Notifications.Warning(MsgSessionExpired)
	if a.Navigator.CurrentPath() == authclient.LoginPath {
		return
	}
	if _, err := a.Open(authclient.LoginPath); err != nil {
		log.Error("failed to open login page", sl.Err(err))
	}
}

// Open переходит по адресу и возвращает экран с учётом проверок доступа.
// Для защищённого маршрута решение отслеживается: если сессия изменится и
// доступ пропадёт, навигатор уйдёт по перенаправлению сам.
func (a *App) Open(target string) (navigation.View, error) {
	const op = "portal.Open"

	view, err := a.Router.Resolve(a.Session.Snapshot(), target)
	if err != nil {
		return navigation.View{}, fmt.Errorf("%s: %w", op, err)
	}
	a.Navigator.Go(view.Target)

	var stop func()
	if g := view.Route.Guard; g != nil {
		first := true
		stop = guard.Watch(a.Session, *g, view.Target, func(d guard.Decision) {
			if first {
				first = false
				return
			}
			a.onDecision(view.Target, d)
		})
	}

	a.mu.Lock()
	if a.stopWatch != nil {
		a.stopWatch()
	}
	a.stopWatch = stop
	a.view = view
	a.mu.Unlock()

	return view, nil
}

func (a *App) onDecision(target string, d guard.Decision) {
	next := target
	if d.State == guard.Denied {
		next = d.Redirect
	}
	if _, err := a.Open(next); err != nil {
		a.log.Error("failed to follow guard decision", slog.String("target", next), sl.Err(err))
	}
}

// View возвращает последний открытый экран.
func (a *App) View() navigation.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Apply выполняет переход, который запросила операция.
func (a *App) Apply(out authclient.Outcome) (navigation.View, error) {
	if out.Navigate == "" {
		return a.View(), nil
	}
	return a.Open(out.Navigate)
}

// Close останавливает отслеживание экрана и закрывает хранилище токена.
func (a *App) Close() error {
	a.mu.Lock()
	if a.stopWatch != nil {
		a.stopWatch()
		a.stopWatch = nil
	}
	a.mu.Unlock()

	a.Notifications.Dismiss()
	if closer, ok := a.slot.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("portal.Close: %w", err)
		}
	}
	return nil
}
