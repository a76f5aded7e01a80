// Package cli реализует терминальный клиент платформы мастерских.
//
// Каждый запуск собирает portal.App, восстанавливает сессию из сохранённого
// токена и выполняет одну команду. Итог операции выводится баннером
// уведомления, переходы выполняются через навигатор приложения с учётом
// проверок доступа.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/workshop-portal/internal/app/portal"
	"github.com/magabrotheeeer/workshop-portal/internal/authclient"
	"github.com/magabrotheeeer/workshop-portal/internal/config"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/ui"
)

// AppFactory собирает клиент по конфигурации. В тестах подменяется, чтобы
// направить клиент на тестовый сервер и общий слот токена.
type AppFactory func(ctx context.Context, cfg *config.Config, log *slog.Logger) (*portal.App, error)

// DefaultFactory собирает клиент только по конфигурации.
func DefaultFactory(ctx context.Context, cfg *config.Config, log *slog.Logger) (*portal.App, error) {
	return portal.New(ctx, cfg, log, portal.Options{})
}

type runtime struct {
	factory    AppFactory
	configPath string
	apiURL     string
	debug      bool

	out    io.Writer
	errOut io.Writer
	r      *ui.Renderer
	log    *slog.Logger

	app *portal.App
}

// NewRootCommand создаёт корневую команду workshops. nil factory означает
// DefaultFactory.
func NewRootCommand(factory AppFactory) *cobra.Command {
	if factory == nil {
		factory = DefaultFactory
	}
	rt := &runtime{factory: factory, r: ui.New()}

	root := &cobra.Command{
		Use:   "workshops",
		Short: "Science workshops portal client",
		Long: `workshops is a terminal client for the science workshops portal.

Browse workshops, register for them as a guest or a student, and track your
registrations. Administrators manage workshops, registrations and users.

The access token is kept between runs in the configured token store
(a file in the user config directory by default).

Examples:
  workshops login --email student@example.com --password secret123
  workshops workshops --status upcoming --grade 8
  workshops open /dashboard/registrations
  workshops admin users`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.start(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return rt.stop()
		},
	}

	root.PersistentFlags().StringVarP(&rt.configPath, "config", "c", "", "config file (default is $CONFIG_PATH)")
	root.PersistentFlags().StringVar(&rt.apiURL, "api", "", "API base URL, overrides api.base_url")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "log debug output to stderr")

	root.AddCommand(
		rt.loginCmd(),
		rt.logoutCmd(),
		rt.registerCmd(),
		rt.whoamiCmd(),
		rt.forgotPasswordCmd(),
		rt.resetPasswordCmd(),
		rt.changePasswordCmd(),
		rt.openCmd(),
		rt.workshopsCmd(),
		rt.workshopCmd(),
		rt.enrollCmd(),
		rt.dashboardCmd(),
		rt.registrationsCmd(),
		rt.cancelCmd(),
		rt.profileCmd(),
		rt.adminCmd(),
	)
	return root
}

// ExecuteContext запускает клиент с аргументами процесса.
func ExecuteContext(ctx context.Context) error {
	return NewRootCommand(nil).ExecuteContext(ctx)
}

func (rt *runtime) start(cmd *cobra.Command) error {
	const op = "cli.start"

	rt.out = cmd.OutOrStdout()
	rt.errOut = cmd.ErrOrStderr()

	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rt.apiURL != "" {
		cfg.API.BaseURL = rt.apiURL
	}

	log := rt.logger(cfg.Env)
	rt.log = log
	log.Debug("starting workshops client", slog.String("env", cfg.Env), slog.String("api", cfg.API.BaseURL))

	app, err := rt.factory(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rt.app = app

	// Сессия восстанавливается до любой проверки доступа. Ошибка
	// восстановления не мешает работе: клиент остаётся гостем.
	if err := app.Boot(cmd.Context()); err != nil {
		log.Warn("session restore failed", sl.Err(err))
	}
	return nil
}

func (rt *runtime) stop() error {
	if rt.app == nil {
		return nil
	}
	err := rt.app.Close()
	rt.app = nil
	return err
}

func (rt *runtime) logger(env string) *slog.Logger {
	level := slog.LevelWarn
	if rt.debug {
		level = slog.LevelDebug
	}
	w := rt.errOut
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	if env == "prod" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (rt *runtime) println(s string) {
	if s == "" {
		return
	}
	fmt.Fprintln(rt.out, s)
}

// finish выводит итог операции: текущее уведомление, ошибки полей формы
// и экран, на который ведёт операция.
func (rt *runtime) finish(ctx context.Context, out authclient.Outcome) error {
	rt.printNotification()
	if len(out.FieldErrors) > 0 {
		rt.println(rt.r.FieldErrors(out.FieldErrors))
		return ErrActionFailed
	}
	if out.Navigate != "" {
		if err := rt.show(ctx, out.Navigate); err != nil {
			return err
		}
	}
	if !out.OK {
		return ErrActionFailed
	}
	return nil
}

func (rt *runtime) printNotification() {
	if n, ok := rt.app.Notifications.Current(); ok {
		rt.println(rt.r.Notification(n))
	}
}
