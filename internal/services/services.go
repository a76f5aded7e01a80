// Package services реализует бизнес-логику workshops-api: учётные записи,
// каталог мастерских, заявки и панель администратора.
//
// Ошибки, которые нужно показать клиенту, возвращаются как *apierr.Error
// с текстом detail бэкенда платформы; остальные ошибки оборачиваются с op.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/apierr"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/storage"
)

// UserRepository — хранилище пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, u storage.User) (*storage.User, error)
	UserByEmail(ctx context.Context, email string) (*storage.User, error)
	UserByID(ctx context.Context, id string) (*storage.User, error)
	Users(ctx context.Context) ([]models.UserProfile, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUser(ctx context.Context, id string, apply func(u *storage.User)) (*storage.User, error)
}

// WorkshopRepository — хранилище мастерских.
type WorkshopRepository interface {
	CreateWorkshop(ctx context.Context, w models.Workshop) (*models.Workshop, error)
	Workshop(ctx context.Context, id string) (*models.Workshop, error)
	Workshops(ctx context.Context, f models.WorkshopFilter) ([]models.Workshop, error)
	CountWorkshops(ctx context.Context) (total, upcoming int, err error)
	UpdateWorkshop(ctx context.Context, id string, apply func(w *models.Workshop)) (*models.Workshop, error)
	DeleteWorkshop(ctx context.Context, id string) (registrations int, err error)
}

// RegistrationRepository — хранилище заявок.
type RegistrationRepository interface {
	CreateRegistration(ctx context.Context, reg models.Registration, admit storage.AdmitFunc) (*models.Registration, *models.Workshop, error)
	Registration(ctx context.Context, id string) (*models.Registration, error)
	Registrations(ctx context.Context) ([]models.Registration, error)
	RegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error)
	RegistrationsByWorkshop(ctx context.Context, workshopID string) ([]models.Registration, error)
	RegistrationsBetween(ctx context.Context, from, to time.Time) ([]models.Registration, error)
	UpdateRegistration(ctx context.Context, id string, apply func(r *models.Registration)) (*models.Registration, error)
	DeleteRegistration(ctx context.Context, id string) (*models.Registration, error)
}

// Cache — хранилище одноразовых кодов с истечением.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Notifier отправляет письма платформы. Ошибки доставки Notifier
// обрабатывает сам.
type Notifier interface {
	SendOTP(ctx context.Context, email, otp string, ttlMinutes int)
	SendRegistrationReceived(ctx context.Context, reg models.Registration, w models.Workshop)
	SendRegistrationApproved(ctx context.Context, reg models.Registration, w models.Workshop)
}

// notFound переводит storage.ErrNotFound в 404 с detail, остальное оборачивает.
func notFound(op string, err error, detail string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apierr.NotFound(detail)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func noFields() error {
	return apierr.BadRequest("No fields to update")
}
