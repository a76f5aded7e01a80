package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/storage"
)

// DefaultLimit — размер страницы каталога, если limit не задан.
const DefaultLimit = 20

// CreateWorkshop сохраняет мастерскую с нулевым числом заявок.
func (s *Storage) CreateWorkshop(ctx context.Context, w models.Workshop) (*models.Workshop, error) {
	const op = "storage.memory.CreateWorkshop"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	w.ID = s.newID()
	w.CreatedAt = models.NewTimestamp(s.now())
	w.RegisteredCount = 0
	w.EligibleGrades = cloneInts(w.EligibleGrades)

	s.mu.Lock()
	stored := w
	s.workshops[w.ID] = &stored
	s.mu.Unlock()

	return copyWorkshop(&stored), nil
}

// Workshop возвращает мастерскую по ID.
func (s *Storage) Workshop(ctx context.Context, id string) (*models.Workshop, error) {
	const op = "storage.memory.Workshop"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workshops[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return copyWorkshop(w), nil
}

// Workshops возвращает мастерские по фильтру, упорядоченные по дате начала.
// Поиск ищет подстроку в названии и описании без учёта регистра.
func (s *Storage) Workshops(ctx context.Context, f models.WorkshopFilter) ([]models.Workshop, error) {
	const op = "storage.memory.Workshops"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	search := strings.ToLower(f.Search)
	s.mu.RLock()
	out := make([]models.Workshop, 0, len(s.workshops))
	for _, w := range s.workshops {
		if f.Status != "" && w.Status != f.Status {
			continue
		}
		if f.Grade > 0 && !w.IsEligible(f.Grade) {
			continue
		}
		if f.Featured != nil && w.Featured != *f.Featured {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(w.Title), search) &&
			!strings.Contains(strings.ToLower(w.Description), search) {
			continue
		}
		out = append(out, *copyWorkshop(w))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate.Time) {
			return out[i].StartDate.Before(out[j].StartDate.Time)
		}
		return out[i].ID < out[j].ID
	})

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if f.Skip >= len(out) {
		return []models.Workshop{}, nil
	}
	out = out[max(f.Skip, 0):]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountWorkshops возвращает общее число мастерских и число тех, что
// начинаются позже now.
func (s *Storage) CountWorkshops(ctx context.Context) (total, upcoming int, err error) {
	const op = "storage.memory.CountWorkshops"
	if err := checkCtx(ctx, op); err != nil {
		return 0, 0, err
	}

	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.workshops {
		if w.StartDate.After(now) {
			upcoming++
		}
	}
	return len(s.workshops), upcoming, nil
}

// UpdateWorkshop применяет apply к мастерской под блокировкой записи.
func (s *Storage) UpdateWorkshop(ctx context.Context, id string, apply func(w *models.Workshop)) (*models.Workshop, error) {
	const op = "storage.memory.UpdateWorkshop"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workshops[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	updated := *copyWorkshop(w)
	apply(&updated)
	updated.ID, updated.CreatedAt, updated.RegisteredCount = w.ID, w.CreatedAt, w.RegisteredCount
	*w = updated
	return copyWorkshop(w), nil
}

// DeleteWorkshop удаляет мастерскую, если у неё нет заявок. Иначе
// возвращается число найденных заявок и ошибка не возвращается.
func (s *Storage) DeleteWorkshop(ctx context.Context, id string) (registrations int, err error) {
	const op = "storage.memory.DeleteWorkshop"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workshops[id]; !ok {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	for _, r := range s.registrations {
		if r.WorkshopID == id {
			registrations++
		}
	}
	if registrations > 0 {
		return registrations, nil
	}
	delete(s.workshops, id)
	return 0, nil
}

func copyWorkshop(w *models.Workshop) *models.Workshop {
	out := *w
	out.EligibleGrades = cloneInts(w.EligibleGrades)
	return &out
}
