// Package auth реализует HTTP-обработчики /auth: регистрацию, вход,
// текущего пользователя и управление паролем.
package auth

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

// Service описывает бизнес-логику учётных записей.
type Service interface {
	Register(ctx context.Context, in models.RegisterRequest) (*models.UserProfile, error)
	Login(ctx context.Context, creds models.Credentials) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, in models.PasswordResetConfirm) (string, error)
	ChangePassword(ctx context.Context, userID string, in models.PasswordChange) (string, error)
}

// TokenResponse — ответ POST /auth/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Handler обрабатывает запросы /auth.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис учётных записей
	validate *validate.Validator // Валидатор тел запросов
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Register обрабатывает POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Register"
	log := h.logger(r, op)

	var req models.RegisterRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	profile, err := h.service.Register(r.Context(), req)
	if err != nil {
		log.Info("registration failed", sl.Err(err))
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("user registered", slog.String("user_id", profile.ID))
	response.JSON(w, r, http.StatusOK, profile)
}

// Login обрабатывает POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Login"
	log := h.logger(r, op)

	var creds models.Credentials
	if !request.Decode(w, r, log, h.validate, &creds) {
		return
	}

	token, err := h.service.Login(r.Context(), creds)
	if err != nil {
		log.Info("login failed", sl.Err(err))
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("login success")
	response.JSON(w, r, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me обрабатывает GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := middlewarectx.UserFromContext(r.Context())
	response.JSON(w, r, http.StatusOK, u.Profile())
}

// ForgotPassword обрабатывает POST /auth/forgot-password.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.ForgotPassword"
	log := h.logger(r, op)

	var req models.PasswordResetRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	h.message(w, r, log)(h.service.ForgotPassword(r.Context(), req.Email))
}

// ResetPassword обрабатывает POST /auth/reset-password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.ResetPassword"
	log := h.logger(r, op)

	var req models.PasswordResetConfirm
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	h.message(w, r, log)(h.service.ResetPassword(r.Context(), req))
}

// ChangePassword обрабатывает POST /auth/change-password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.ChangePassword"
	log := h.logger(r, op)

	var req models.PasswordChange
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	u, _ := middlewarectx.UserFromContext(r.Context())
	h.message(w, r, log)(h.service.ChangePassword(r.Context(), u.ID, req))
}

func (h *Handler) message(w http.ResponseWriter, r *http.Request, log *slog.Logger) func(string, error) {
	return func(msg string, err error) {
		if err != nil {
			log.Info("request failed", sl.Err(err))
			response.WriteError(w, r, log, err)
			return
		}
		response.JSON(w, r, http.StatusOK, models.Message{Message: msg})
	}
}
