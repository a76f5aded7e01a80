// Package workshopsapi собирает сервер-дублёр REST API платформы мастерских:
// хранилище в памяти, сервисы, маршруты chi и HTTP-сервер.
package workshopsapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/workshop-portal/internal/http/handlers/admin"
	"github.com/magabrotheeeer/workshop-portal/internal/http/handlers/auth"
	"github.com/magabrotheeeer/workshop-portal/internal/http/handlers/registrations"
	"github.com/magabrotheeeer/workshop-portal/internal/http/handlers/users"
	"github.com/magabrotheeeer/workshop-portal/internal/http/handlers/workshops"
	"github.com/magabrotheeeer/workshop-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/workshop-portal/internal/http/response"
	"github.com/magabrotheeeer/workshop-portal/internal/metrics"
	"github.com/magabrotheeeer/workshop-portal/internal/services"
)

// Services — сервисы, которые обслуживают маршруты.
type Services struct {
	Auth          *services.AuthService
	Workshops     *services.WorkshopService
	Registrations *services.RegistrationService
	Admin         *services.AdminService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	svc Services,
	limiter *middlewarectx.LoginLimiter,
	m *metrics.Server,
	metricsHandler http.Handler,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics(m),
	)

	jwt := middlewarectx.JWTMiddleware(svc.Auth, logger)
	adminOnly := middlewarectx.AdminOnly(logger)

	authHandler := auth.New(logger, svc.Auth)
	usersHandler := users.New(logger, svc.Auth)
	workshopsHandler := workshops.New(logger, svc.Workshops)
	registrationsHandler := registrations.New(logger, svc.Registrations)
	adminHandler := admin.New(logger, svc.Admin)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.With(limiter.Middleware).Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(jwt)
				r.Get("/me", authHandler.Me)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(jwt)
			r.Get("/me", usersHandler.Me)
			r.Put("/me", usersHandler.UpdateMe)
		})

		r.Route("/workshops", func(r chi.Router) {
			r.Get("/", workshopsHandler.List)
			r.Get("/{id}", workshopsHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(jwt, adminOnly)
				r.Post("/", workshopsHandler.Create)
				r.Put("/{id}", workshopsHandler.Update)
				r.Delete("/{id}", workshopsHandler.Delete)
			})
		})

		r.Route("/registrations", func(r chi.Router) {
			// Гостевые заявки принимаются без токена.
			r.With(middlewarectx.OptionalJWT(svc.Auth, logger)).Post("/", registrationsHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(jwt)
				r.Get("/me", registrationsHandler.Mine)
				r.Get("/{id}", registrationsHandler.Get)
				r.Delete("/{id}", registrationsHandler.Cancel)
				r.With(adminOnly).Put("/{id}", registrationsHandler.Update)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(jwt, adminOnly)
			r.Get("/dashboard", adminHandler.Dashboard)
			r.Get("/users", adminHandler.Users)
			r.Put("/users/{id}", adminHandler.UpdateUser)
			r.Get("/registrations", adminHandler.Registrations)
			r.Post("/export/registrations/{id}", adminHandler.Export)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metricsHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusNotFound, response.Error("Not Found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusMethodNotAllowed, response.Error("Method Not Allowed"))
	})
}
