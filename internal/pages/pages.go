// Package pages содержит загрузчики данных и действия страниц приложения.
// Ошибки загрузки возвращаются как *LoadError с текстом для страницы,
// итоги действий сообщаются через канал уведомлений.
package pages

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/workshop-portal/internal/authclient"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/validate"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/notify"
	"github.com/magabrotheeeer/workshop-portal/internal/restclient"
	"github.com/magabrotheeeer/workshop-portal/internal/session"
)

// Outcome — результат действия страницы.
type Outcome = authclient.Outcome

// API — вызовы REST API, нужные страницам.
type API interface {
	Workshops(ctx context.Context, filter models.WorkshopFilter) ([]models.Workshop, error)
	Workshop(ctx context.Context, id string) (*models.Workshop, error)
	CreateWorkshop(ctx context.Context, in models.WorkshopInput) (*models.Workshop, error)
	UpdateWorkshop(ctx context.Context, id string, upd models.WorkshopUpdate) (*models.Workshop, error)
	DeleteWorkshop(ctx context.Context, id string) error

	CreateRegistration(ctx context.Context, in models.RegistrationInput) (*models.Registration, error)
	MyRegistrations(ctx context.Context) ([]models.Registration, error)
	UpdateRegistration(ctx context.Context, id string, upd models.RegistrationUpdate) (*models.Registration, error)
	CancelRegistration(ctx context.Context, id string) error

	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	Users(ctx context.Context) ([]models.UserProfile, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.UserProfile, error)
	AllRegistrations(ctx context.Context) ([]models.Registration, error)
	ExportRegistrations(ctx context.Context, workshopID string) (*models.RegistrationExport, error)
}

// SessionReader — чтение текущей сессии.
type SessionReader interface {
	Snapshot() session.Snapshot
}

// LoadError — ошибка загрузки данных страницы.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Pages объединяет загрузчики и действия страниц.
type Pages struct {
	log      *slog.Logger
	api      API
	session  SessionReader
	notifier notify.Publisher
	validate *validate.Validator
}

// New создаёт Pages.
func New(log *slog.Logger, api API, sess SessionReader, notifier notify.Publisher) *Pages {
	return &Pages{
		log:      sl.OrDiscard(log),
		api:      api,
		session:  sess,
		notifier: notifier,
		validate: validate.New(),
	}
}

func (p *Pages) loadFailed(op string, err error, msg string) error {
	p.log.Warn("failed to load page data", slog.String("op", op), sl.Err(err))
	return &LoadError{Message: msg, Err: err}
}

// actionFailed показывает detail ответа API, если он есть, иначе fallback.
func (p *Pages) actionFailed(op string, err error, fallback string) Outcome {
	p.log.Info("action failed", slog.String("op", op), sl.Err(err))
	// сессию уже сбросил обработчик 401 транспорта, предупреждение показано
	if restclient.IsUnauthorized(err) {
		return Outcome{Navigate: authclient.LoginPath}
	}
	if restclient.IsNetwork(err) {
		p.notifier.Error(authclient.MsgNetworkError)
		return Outcome{}
	}
	if fields := restclient.FieldErrors(err); len(fields) > 0 {
		return Outcome{FieldErrors: fields}
	}
	if detail := restclient.Detail(err); detail != "" {
		p.notifier.Error(detail)
		return Outcome{}
	}
	p.notifier.Error(fallback)
	return Outcome{}
}
