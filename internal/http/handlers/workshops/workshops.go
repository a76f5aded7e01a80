// Package workshops реализует HTTP-обработчики каталога мастерских /workshops.
//
// Просмотр каталога открыт всем, изменение доступно только администратору;
// ограничение доступа задаётся middleware при монтировании маршрутов.
package workshops

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/workshop-portal/internal/http/request"
	"github.com/magabrotheeeer/workshop-portal/internal/http/response"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/validate"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

// Service описывает бизнес-логику каталога.
type Service interface {
	List(ctx context.Context, f models.WorkshopFilter) ([]models.Workshop, error)
	Get(ctx context.Context, id string) (*models.Workshop, error)
	Create(ctx context.Context, in models.WorkshopInput) (*models.Workshop, error)
	Update(ctx context.Context, id string, in models.WorkshopUpdate) (*models.Workshop, error)
	Delete(ctx context.Context, id string) error
}

// Handler обрабатывает запросы /workshops.
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

// List обрабатывает GET /workshops?skip=&limit=&status=&grade=&featured=&search=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workshops.List"
	log := h.logger(r, op)

	filter, name, err := parseFilter(r)
	if err != nil {
		log.Info("invalid query parameter", slog.String("param", name), sl.Err(err))
		response.JSON(w, r, http.StatusUnprocessableEntity, response.QueryError(name, "value is not a valid "+kind(name)))
		return
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, list)
}

// Get обрабатывает GET /workshops/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workshops.Get"
	log := h.logger(r, op)

	ws, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, ws)
}

// Create обрабатывает POST /workshops.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workshops.Create"
	log := h.logger(r, op)

	var req models.WorkshopInput
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	ws, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	log.Info("workshop created", slog.String("workshop_id", ws.ID))
	response.JSON(w, r, http.StatusOK, ws)
}

// Update обрабатывает PUT /workshops/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workshops.Update"
	log := h.logger(r, op)

	var req models.WorkshopUpdate
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	ws, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		log.Info("workshop update failed", sl.Err(err))
		response.WriteError(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, ws)
}

// Delete обрабатывает DELETE /workshops/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workshops.Delete"
	log := h.logger(r, op)

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		log.Info("workshop delete failed", sl.Err(err))
		response.WriteError(w, r, log, err)
		return
	}
	log.Info("workshop deleted", slog.String("workshop_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// parseFilter разбирает параметры каталога. При ошибке возвращает имя параметра.
func parseFilter(r *http.Request) (models.WorkshopFilter, string, error) {
	q := r.URL.Query()
	f := models.WorkshopFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"skip", &f.Skip},
		{"limit", &f.Limit},
		{"grade", &f.Grade},
	}
	for _, p := range ints {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return f, p.name, err
		}
		*p.dst = v
	}

	if raw := q.Get("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, "featured", err
		}
		f.Featured = &v
	}
	return f, "", nil
}

func kind(param string) string {
	if param == "featured" {
		return "boolean"
	}
	return "integer"
}
