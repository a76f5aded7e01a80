package workshopsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/workshop-portal/internal/cache"
	"github.com/magabrotheeeer/workshop-portal/internal/config"
	"github.com/magabrotheeeer/workshop-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/password"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/smtp"
	"github.com/magabrotheeeer/workshop-portal/internal/metrics"
	"github.com/magabrotheeeer/workshop-portal/internal/services"
	"github.com/magabrotheeeer/workshop-portal/internal/services/sender"
	"github.com/magabrotheeeer/workshop-portal/internal/storage/memory"
)

const shutdownTimeout = 15 * time.Second

// App — собранный сервер workshops-api.
type App struct {
	server  *http.Server
	handler http.Handler
	logger  *slog.Logger
	store   *memory.Storage
	otps    cache.Cache
	outbox  *sender.Outbox
	svc     Services
}

// New собирает приложение по конфигурации. Если задан администратор
// (fake_api.admin_email), его учётная запись создаётся при старте.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "workshopsapi.New"
	logger = sl.OrDiscard(logger)

	otps, err := cache.New(ctx, cfg.FakeAPI.OTPCache, cfg.FakeAPI.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	registry := metrics.NewRegistry()
	m := metrics.NewServer(registry)

	var (
		mailer sender.Mailer
		outbox *sender.Outbox
	)
	if cfg.SMTP.Host == "" {
		outbox = sender.NewOutbox(logger)
		mailer = outbox
		logger.Info("smtp is not configured, mails are kept in memory")
	} else {
		mailer = sender.NewSMTPMailer(smtp.NewTransport(cfg.SMTP, logger), logger)
	}
	notifier := sender.NewService(mailer, logger, m)

	store := memory.New()
	svc := Services{
		Auth: services.NewAuthService(
			store,
			jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
			password.New(cfg.FakeAPI.BcryptCost),
			otps,
			notifier,
			cfg.FakeAPI.OTPTTL,
			logger,
		),
		Workshops:     services.NewWorkshopService(store, logger),
		Registrations: services.NewRegistrationService(store, store, notifier, logger),
		Admin:         services.NewAdminService(store, store, store, logger),
	}

	if cfg.FakeAPI.AdminEmail != "" {
		if err := svc.Auth.EnsureAdmin(ctx, cfg.FakeAPI.AdminEmail, cfg.FakeAPI.AdminPassword); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	limiter := middlewarectx.NewLoginLimiter(cfg.FakeAPI.LoginRate, cfg.FakeAPI.LoginBurst, logger, m)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, svc, limiter, m, metrics.HandlerFor(registry))

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		handler: router,
		logger:  logger,
		store:   store,
		otps:    otps,
		outbox:  outbox,
		svc:     svc,
	}, nil
}

// Handler возвращает корневой обработчик: /api, /health и /metrics.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Services возвращает сервисы приложения.
func (a *App) Services() Services {
	return a.svc
}

// Outbox возвращает ящик исходящих писем или nil, если настроен SMTP.
func (a *App) Outbox() *sender.Outbox {
	return a.outbox
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if c, ok := a.otps.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Error("failed to close otp cache", sl.Err(err))
		}
	}
}
