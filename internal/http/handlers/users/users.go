// Package users реализует HTTP-обработчики собственного профиля /users/me.
package users

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/workshop-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/workshop-portal/internal/http/request"
	"github.com/magabrotheeeer/workshop-portal/internal/http/response"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/validate"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

// Service изменяет профиль пользователя.
type Service interface {
	UpdateProfile(ctx context.Context, userID string, in models.ProfileUpdate) (*models.UserProfile, error)
}

// Handler обрабатывает запросы /users/me.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validate.Validator
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validate.New()}
}

// Me обрабатывает GET /users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := middlewarectx.UserFromContext(r.Context())
	response.JSON(w, r, http.StatusOK, u.Profile())
}

// UpdateMe обрабатывает PUT /users/me.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.UpdateMe"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ProfileUpdate
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	u, _ := middlewarectx.UserFromContext(r.Context())

	profile, err := h.service.UpdateProfile(r.Context(), u.ID, req)
	if err != nil {
		log.Info("profile update failed", sl.Err(err))
		response.WriteError(w, r, log, err)
		return
	}
	log.Info("profile updated", slog.String("user_id", u.ID))
	response.JSON(w, r, http.StatusOK, profile)
}
