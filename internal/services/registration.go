package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/apierr"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/storage"
)

// Actor — пользователь, от имени которого выполняется операция.
type Actor struct {
	ID   string
	Role models.Role
}

// IsAdmin сообщает, что действует администратор.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// RegistrationService — заявки на участие.
type RegistrationService struct {
	registrations RegistrationRepository
	workshops     WorkshopRepository
	notifier      Notifier
	log           *slog.Logger
	now           func() time.Time
}

// NewRegistrationService создаёт RegistrationService.
func NewRegistrationService(
	registrations RegistrationRepository,
	workshops WorkshopRepository,
	notifier Notifier,
	log *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		registrations: registrations,
		workshops:     workshops,
		notifier:      notifier,
		log:           sl.OrDiscard(log),
		now:           time.Now,
	}
}

// Create принимает заявку. in.UserID задаётся вызывающим для вошедшего
// пользователя и пуст для гостя. Проверки выполняются вместе с записью,
// поэтому две параллельные заявки не займут последнее место дважды.
func (s *RegistrationService) Create(ctx context.Context, in models.RegistrationInput) (*models.Registration, error) {
	const op = "services.RegistrationService.Create"
	now := s.now()

	admit := func(w models.Workshop, existing []models.Registration, reg *models.Registration) error {
		if w.RegistrationDeadline.Before(now) {
			return apierr.BadRequest("Registration deadline has passed")
		}
		if w.Status != models.WorkshopUpcoming && w.Status != models.WorkshopOngoing {
			return apierr.BadRequest("Workshop is not open for registration")
		}
		if w.RegisteredCount >= w.MaxParticipants {
			return apierr.BadRequest("Workshop is already full")
		}
		for _, r := range existing {
			if in.UserID != "" && r.UserID == in.UserID {
				return apierr.BadRequest("You have already registered for this workshop")
			}
			if in.UserID == "" && strings.EqualFold(r.Email, in.Email) {
				return apierr.BadRequest("This email is already registered for this workshop")
			}
		}
		fee := w.Fee
		reg.AmountPaid = &fee
		return nil
	}

	reg := models.Registration{
		WorkshopID:         in.WorkshopID,
		UserID:             in.UserID,
		Email:              in.Email,
		FullName:           in.FullName,
		Grade:              in.Grade,
		School:             in.School,
		Phone:              in.Phone,
		ParentName:         in.ParentName,
		ParentPhone:        in.ParentPhone,
		PaymentStatus:      models.PaymentPending,
		RegistrationStatus: models.RegistrationPending,
	}
	created, w, err := s.registrations.CreateRegistration(ctx, reg, admit)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apierr.NotFound("Workshop not found")
	}
	if err != nil {
		if _, ok := apierr.From(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registration created",
		slog.String("registration_id", created.ID),
		slog.String("workshop_id", w.ID),
	)
	s.notifier.SendRegistrationReceived(ctx, *created, *w)
	return created, nil
}

// Mine возвращает заявки пользователя.
func (s *RegistrationService) Mine(ctx context.Context, userID string) ([]models.Registration, error) {
	const op = "services.RegistrationService.Mine"
	list, err := s.registrations.RegistrationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Get возвращает заявку владельцу или администратору.
func (s *RegistrationService) Get(ctx context.Context, actor Actor, id string) (*models.Registration, error) {
	const op = "services.RegistrationService.Get"
	reg, err := s.registrations.Registration(ctx, id)
	if err != nil {
		return nil, notFound(op, err, "Registration not found")
	}
	if !canAccess(actor, reg) {
		return nil, apierr.Forbidden("Not authorized to view this registration")
	}
	return reg, nil
}

// Update изменяет статусы заявки. Одобрение отправляет письмо участнику.
func (s *RegistrationService) Update(ctx context.Context, id string, in models.RegistrationUpdate) (*models.Registration, error) {
	const op = "services.RegistrationService.Update"
	if _, err := s.registrations.Registration(ctx, id); err != nil {
		return nil, notFound(op, err, "Registration not found")
	}
	if in.IsEmpty() {
		return nil, noFields()
	}

	updated, err := s.registrations.UpdateRegistration(ctx, id, func(r *models.Registration) {
		setIf(&r.PaymentStatus, in.PaymentStatus)
		setIf(&r.RegistrationStatus, in.RegistrationStatus)
		setIf(&r.PaymentID, in.PaymentID)
		setIf(&r.Notes, in.Notes)
	})
	if err != nil {
		return nil, notFound(op, err, "Registration not found")
	}

	if in.RegistrationStatus != nil && *in.RegistrationStatus == models.RegistrationApproved {
		w, err := s.workshops.Workshop(ctx, updated.WorkshopID)
		if err != nil {
			s.log.Warn("approved registration has no workshop",
				slog.String("registration_id", id), sl.Err(err))
		} else {
			s.notifier.SendRegistrationApproved(ctx, *updated, *w)
		}
	}
	return updated, nil
}

// Cancel удаляет заявку владельцем или администратором.
func (s *RegistrationService) Cancel(ctx context.Context, actor Actor, id string) error {
	const op = "services.RegistrationService.Cancel"
	reg, err := s.registrations.Registration(ctx, id)
	if err != nil {
		return notFound(op, err, "Registration not found")
	}
	if !canAccess(actor, reg) {
		return apierr.Forbidden("Not authorized to cancel this registration")
	}
	if _, err := s.registrations.DeleteRegistration(ctx, id); err != nil {
		return notFound(op, err, "Registration not found")
	}
	s.log.Info("registration cancelled", slog.String("registration_id", id))
	return nil
}

func canAccess(actor Actor, reg *models.Registration) bool {
	return actor.IsAdmin() || (reg.UserID != "" && reg.UserID == actor.ID)
}
