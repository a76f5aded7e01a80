// Package admin реализует HTTP-обработчики панели администратора /admin.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/workshop-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/workshop-portal/internal/http/request"
	"github.com/magabrotheeeer/workshop-portal/internal/http/response"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/validate"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/services"
)

// Service описывает операции панели администратора.
type Service interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
	Users(ctx context.Context) ([]models.UserProfile, error)
	UpdateUser(ctx context.Context, actor services.Actor, id string, in models.UserUpdate) (*models.UserProfile, error)
	Registrations(ctx context.Context) ([]models.Registration, error)
	Export(ctx context.Context, workshopID string) (*models.RegistrationExport, error)
}

// Handler обрабатывает запросы /admin.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validate.Validator
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validate.New()}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Dashboard обрабатывает GET /admin/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.Dashboard")
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, stats)
}

// Users обрабатывает GET /admin/users.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.Users")
	users, err := h.service.Users(r.Context())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, users)
}

// UpdateUser обрабатывает PUT /admin/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.UpdateUser"
	log := h.logger(r, op)

	var req models.UserUpdate
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	profile, err := h.service.UpdateUser(r.Context(), middlewarectx.ActorFromContext(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		log.Info("user update failed", sl.Err(err))
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, profile)
}

// Registrations обрабатывает GET /admin/registrations.
func (h *Handler) Registrations(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.Registrations")
	list, err := h.service.Registrations(r.Context())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, list)
}

// Export обрабатывает POST /admin/export/registrations/{id}.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.Export"
	log := h.logger(r, op)

	export, err := h.service.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Info("export failed", sl.Err(err))
		response.WriteError(w, r, log, err)
		return
	}
	log.Info("registrations exported", slog.String("filename", export.Filename))
	response.JSON(w, r, http.StatusOK, export)
}
