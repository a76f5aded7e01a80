package memory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/storage"
	"github.com/magabrotheeeer/workshop-portal/internal/storage/memory"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newStorage() (*memory.Storage, *time.Time) {
	now := base
	return memory.NewWithClock(func() time.Time { return now }), &now
}

func workshop(title string, start time.Time, grades ...int) models.Workshop {
	return models.Workshop{
		Title:           title,
		Description:     "About " + title,
		StartDate:       models.NewTimestamp(start),
		MaxParticipants: 2,
		EligibleGrades:  grades,
		Status:          models.WorkshopUpcoming,
	}
}

func TestStorage_Users(t *testing.T) {
	s, _ := newStorage()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, storage.User{UserProfile: models.UserProfile{Email: "Ann@Example.com", FullName: "Ann"}, PasswordHash: "h"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, base, u.CreatedAt.Time)

	_, err = s.CreateUser(ctx, storage.User{UserProfile: models.UserProfile{Email: "ann@example.com"}})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	found, err := s.UserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	updated, err := s.UpdateUser(ctx, u.ID, func(u *storage.User) {
		u.FullName = "Anna"
		u.Email = "hijack@example.com"
	})
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.FullName)
	assert.Equal(t, "Ann@Example.com", updated.Email)

	_, err = s.UserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_WorkshopsFilter(t *testing.T) {
	s, _ := newStorage()
	ctx := context.Background()

	late := workshop("Robotics", base.Add(72*time.Hour), 8, 9)
	late.Featured = true
	_, err := s.CreateWorkshop(ctx, late)
	require.NoError(t, err)
	_, err = s.CreateWorkshop(ctx, workshop("Optics", base.Add(24*time.Hour), 6, 7))
	require.NoError(t, err)
	done := workshop("Chemistry", base.Add(48*time.Hour), 8)
	done.Status = models.WorkshopCompleted
	_, err = s.CreateWorkshop(ctx, done)
	require.NoError(t, err)

	featured := true
	tests := []struct {
		name   string
		filter models.WorkshopFilter
		want   []string
	}{
		{"all sorted by start", models.WorkshopFilter{}, []string{"Optics", "Chemistry", "Robotics"}},
		{"status", models.WorkshopFilter{Status: models.WorkshopUpcoming}, []string{"Optics", "Robotics"}},
		{"grade", models.WorkshopFilter{Grade: 8}, []string{"Chemistry", "Robotics"}},
		{"featured", models.WorkshopFilter{Featured: &featured}, []string{"Robotics"}},
		{"search", models.WorkshopFilter{Search: "about opt"}, []string{"Optics"}},
		{"skip and limit", models.WorkshopFilter{Skip: 1, Limit: 1}, []string{"Chemistry"}},
		{"skip past end", models.WorkshopFilter{Skip: 10}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.Workshops(ctx, tt.filter)
			require.NoError(t, err)
			titles := make([]string, 0, len(list))
			for _, w := range list {
				titles = append(titles, w.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestStorage_RegistrationCounts(t *testing.T) {
	s, _ := newStorage()
	ctx := context.Background()

	w, err := s.CreateWorkshop(ctx, workshop("Robotics", base.Add(time.Hour), 8))
	require.NoError(t, err)

	full := errors.New("full")
	admit := func(w models.Workshop, existing []models.Registration, _ *models.Registration) error {
		if len(existing) >= w.MaxParticipants {
			return full
		}
		return nil
	}

	var ids []string
	for i := 0; i < 2; i++ {
		reg, updated, err := s.CreateRegistration(ctx, models.Registration{WorkshopID: w.ID, Email: fmt.Sprintf("s%d@x.io", i)}, admit)
		require.NoError(t, err)
		assert.Equal(t, i+1, updated.RegisteredCount)
		ids = append(ids, reg.ID)
	}
	_, _, err = s.CreateRegistration(ctx, models.Registration{WorkshopID: w.ID}, admit)
	assert.ErrorIs(t, err, full)

	n, err := s.DeleteWorkshop(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.DeleteRegistration(ctx, ids[0])
	require.NoError(t, err)
	got, err := s.Workshop(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RegisteredCount)

	_, _, err = s.CreateRegistration(ctx, models.Registration{WorkshopID: "missing"}, nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_RegistrationsBetween(t *testing.T) {
	s, now := newStorage()
	ctx := context.Background()

	w, err := s.CreateWorkshop(ctx, workshop("Robotics", base, 8))
	require.NoError(t, err)
	_, _, err = s.CreateRegistration(ctx, models.Registration{WorkshopID: w.ID}, nil)
	require.NoError(t, err)
	*now = base.Add(26 * time.Hour)
	_, _, err = s.CreateRegistration(ctx, models.Registration{WorkshopID: w.ID}, nil)
	require.NoError(t, err)

	day, err := s.RegistrationsBetween(ctx, base.Add(24*time.Hour), base.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Len(t, day, 1)
}

func TestStorage_CanceledContext(t *testing.T) {
	s, _ := newStorage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Workshops(ctx, models.WorkshopFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
