// Package registrations реализует HTTP-обработчики заявок /registrations.
package registrations

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

// Service описывает бизнес-логику заявок.
type Service interface {
	Create(ctx context.Context, in models.RegistrationInput) (*models.Registration, error)
	Mine(ctx context.Context, userID string) ([]models.Registration, error)
	Get(ctx context.Context, actor services.Actor, id string) (*models.Registration, error)
	Update(ctx context.Context, id string, in models.RegistrationUpdate) (*models.Registration, error)
	Cancel(ctx context.Context, actor services.Actor, id string) error
}

// Handler обрабатывает запросы /registrations.
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

// Create обрабатывает POST /registrations. Заявка вошедшего пользователя
// привязывается к нему, user_id из тела гостевой заявки отбрасывается.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registrations.Create"
	log := h.logger(r, op)

	var req models.RegistrationInput
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	req.UserID = ""
	if u, ok := middlewarectx.UserFromContext(r.Context()); ok {
		req.UserID = u.ID
	}

	reg, err := h.service.Create(r.Context(), req)
	if err != nil {
		log.Info("registration rejected", sl.Err(err))
		response.WriteError(w, r, log, err)
		return
	}
	log.Info("registration created", slog.String("registration_id", reg.ID))
	response.JSON(w, r, http.StatusOK, reg)
}

// Mine обрабатывает GET /registrations/me.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registrations.Mine"
	log := h.logger(r, op)

	list, err := h.service.Mine(r.Context(), middlewarectx.ActorFromContext(r.Context()).ID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, list)
}

// Get обрабатывает GET /registrations/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registrations.Get"
	log := h.logger(r, op)

	reg, err := h.service.Get(r.Context(), middlewarectx.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, reg)
}

// Update обрабатывает PUT /registrations/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registrations.Update"
	log := h.logger(r, op)

	var req models.RegistrationUpdate
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	reg, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		log.Info("registration update failed", sl.Err(err))
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, reg)
}

// Cancel обрабатывает DELETE /registrations/{id}.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registrations.Cancel"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	if err := h.service.Cancel(r.Context(), middlewarectx.ActorFromContext(r.Context()), id); err != nil {
		log.Info("registration cancel failed", sl.Err(err))
		response.WriteError(w, r, log, err)
		return
	}
	log.Info("registration cancelled", slog.String("registration_id", id))
	w.WriteHeader(http.StatusNoContent)
}
