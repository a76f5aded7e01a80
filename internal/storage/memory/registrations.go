package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/storage"
)

// CreateRegistration сохраняет заявку и увеличивает счётчик мастерской.
// Проверка admit и запись выполняются под одной блокировкой, поэтому
// мест не бывает продано больше, чем есть.
func (s *Storage) CreateRegistration(ctx context.Context, reg models.Registration, admit storage.AdmitFunc) (*models.Registration, *models.Workshop, error) {
	const op = "storage.memory.CreateRegistration"
	if err := checkCtx(ctx, op); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workshops[reg.WorkshopID]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if admit != nil {
		if err := admit(*copyWorkshop(w), s.byWorkshopLocked(w.ID), &reg); err != nil {
			return nil, nil, err
		}
	}

	reg.ID = s.newID()
	reg.CreatedAt = models.NewTimestamp(s.now())
	stored := reg
	s.registrations[reg.ID] = &stored
	w.RegisteredCount++

	out := stored
	return &out, copyWorkshop(w), nil
}

// Registration возвращает заявку по ID.
func (s *Storage) Registration(ctx context.Context, id string) (*models.Registration, error) {
	const op = "storage.memory.Registration"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.registrations[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	out := *r
	return &out, nil
}

// Registrations возвращает все заявки в порядке подачи.
func (s *Storage) Registrations(ctx context.Context) ([]models.Registration, error) {
	return s.registrationsWhere(ctx, "storage.memory.Registrations", func(*models.Registration) bool { return true })
}

// RegistrationsByUser возвращает заявки пользователя.
func (s *Storage) RegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	return s.registrationsWhere(ctx, "storage.memory.RegistrationsByUser", func(r *models.Registration) bool {
		return r.UserID == userID
	})
}

// RegistrationsByWorkshop возвращает заявки мастерской.
func (s *Storage) RegistrationsByWorkshop(ctx context.Context, workshopID string) ([]models.Registration, error) {
	return s.registrationsWhere(ctx, "storage.memory.RegistrationsByWorkshop", func(r *models.Registration) bool {
		return r.WorkshopID == workshopID
	})
}

// RegistrationsBetween возвращает заявки, поданные в интервале [from, to).
func (s *Storage) RegistrationsBetween(ctx context.Context, from, to time.Time) ([]models.Registration, error) {
	return s.registrationsWhere(ctx, "storage.memory.RegistrationsBetween", func(r *models.Registration) bool {
		return !r.CreatedAt.Before(from) && r.CreatedAt.Before(to)
	})
}

func (s *Storage) registrationsWhere(ctx context.Context, op string, keep func(*models.Registration) bool) ([]models.Registration, error) {
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]models.Registration, 0)
	for _, r := range s.registrations {
		if keep(r) {
			out = append(out, *r)
		}
	}
	s.mu.RUnlock()

	sortRegistrations(out)
	return out, nil
}

func (s *Storage) byWorkshopLocked(workshopID string) []models.Registration {
	out := make([]models.Registration, 0)
	for _, r := range s.registrations {
		if r.WorkshopID == workshopID {
			out = append(out, *r)
		}
	}
	sortRegistrations(out)
	return out
}

// UpdateRegistration применяет apply к заявке под блокировкой записи.
func (s *Storage) UpdateRegistration(ctx context.Context, id string, apply func(r *models.Registration)) (*models.Registration, error) {
	const op = "storage.memory.UpdateRegistration"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.registrations[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	updated := *r
	apply(&updated)
	updated.ID, updated.WorkshopID, updated.CreatedAt = r.ID, r.WorkshopID, r.CreatedAt
	*r = updated

	out := updated
	return &out, nil
}

// DeleteRegistration удаляет заявку и уменьшает счётчик мастерской.
func (s *Storage) DeleteRegistration(ctx context.Context, id string) (*models.Registration, error) {
	const op = "storage.memory.DeleteRegistration"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.registrations[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	delete(s.registrations, id)
	if w, ok := s.workshops[r.WorkshopID]; ok && w.RegisteredCount > 0 {
		w.RegisteredCount--
	}
	return r, nil
}

func sortRegistrations(list []models.Registration) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt.Time) {
			return list[i].CreatedAt.Before(list[j].CreatedAt.Time)
		}
		return list[i].ID < list[j].ID
	})
}
