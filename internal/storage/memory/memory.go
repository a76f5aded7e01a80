// Package memory реализует хранилище workshops-api в памяти процесса.
// Все методы безопасны для параллельного вызова.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/storage"
)

// Storage хранит пользователей, мастерские и заявки.
type Storage struct {
	mu            sync.RWMutex
	users         map[string]*storage.User
	emails        map[string]string
	workshops     map[string]*models.Workshop
	registrations map[string]*models.Registration

	now   func() time.Time
	newID func() string
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		users:         make(map[string]*storage.User),
		emails:        make(map[string]string),
		workshops:     make(map[string]*models.Workshop),
		registrations: make(map[string]*models.Registration),
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// NewWithClock создаёт хранилище с заданными часами.
func NewWithClock(now func() time.Time) *Storage {
	s := New()
	s.now = now
	return s
}

func checkCtx(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		return nil
	}
}

func cloneInts(in []int) []int {
	if in == nil {
		return nil
	}
	out := make([]int, len(in))
	copy(out, in)
	return out
}
