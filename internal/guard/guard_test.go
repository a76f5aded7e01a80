package guard

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/session"
	"github.com/magabrotheeeer/workshop-portal/internal/tokenstore"
)

func snapshot(restoring bool, role models.Role) session.Snapshot {
	snap := session.Snapshot{RestoreInProgress: restoring}
	if role != "" {
		snap.Token = "tok"
		snap.User = &models.UserProfile{Role: role}
	}
	return snap
}

func TestGuards(t *testing.T) {
	tests := []struct {
		name      string
		guard     Guard
		snap      session.Snapshot
		requested string
		want      Decision
	}{
		{
			name:      "authenticated: restoring never redirects",
			guard:     Authenticated(),
			snap:      snapshot(true, ""),
			requested: "/dashboard",
			want:      Decision{State: Restoring},
		},
		{
			name:      "admin: restoring never redirects",
			guard:     Admin(),
			snap:      snapshot(true, models.RoleUser),
			requested: "/admin",
			want:      Decision{State: Restoring},
		},
		{
			name:      "authenticated: anonymous goes to login with next",
			guard:     Authenticated(),
			snap:      snapshot(false, ""),
			requested: "/dashboard/profile",
			want:      Decision{State: Denied, Redirect: "/login?next=%2Fdashboard%2Fprofile"},
		},
		{
			name:      "authenticated: user granted",
			guard:     Authenticated(),
			snap:      snapshot(false, models.RoleUser),
			requested: "/dashboard",
			want:      Decision{State: Granted},
		},
		{
			name:      "authenticated: admin granted",
			guard:     Authenticated(),
			snap:      snapshot(false, models.RoleAdmin),
			requested: "/dashboard",
			want:      Decision{State: Granted},
		},
		{
			name:      "admin: anonymous goes to login",
			guard:     Admin(),
			snap:      snapshot(false, ""),
			requested: "/admin/users",
			want:      Decision{State: Denied, Redirect: "/login?next=%2Fadmin%2Fusers"},
		},
		{
			name:      "admin: user goes to user landing",
			guard:     Admin(),
			snap:      snapshot(false, models.RoleUser),
			requested: "/admin",
			want:      Decision{State: Denied, Redirect: "/dashboard"},
		},
		{
			name:      "admin: organizer goes to user landing",
			guard:     Admin(),
			snap:      snapshot(false, models.RoleOrganizer),
			requested: "/admin",
			want:      Decision{State: Denied, Redirect: "/dashboard"},
		},
		{
			name:      "admin: admin granted",
			guard:     Admin(),
			snap:      snapshot(false, models.RoleAdmin),
			requested: "/admin",
			want:      Decision{State: Granted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.guard.Evaluate(tt.snap, tt.requested))
		})
	}
}

func TestLoginRedirect(t *testing.T) {
	assert.Equal(t, "/login", LoginRedirect(""))
	assert.Equal(t, "/login", LoginRedirect("/"))
	assert.Equal(t, "/login", LoginRedirect("/login"))
	assert.Equal(t, "/login?next=%2Fadmin%3Ftab%3D1", LoginRedirect("/admin?tab=1"))
}

func TestWatch_TransitionsWithoutRemount(t *testing.T) {
	ctx := context.Background()
	store := session.New(nil, tokenstore.NewMemory())

	var decisions []Decision
	stop := Watch(store, Admin(), "/admin", func(d Decision) {
		decisions = append(decisions, d)
	})
	defer stop()

	require.NoError(t, store.Restore(ctx, session.ProfileFetcherFunc(
		func(context.Context, string) (*models.UserProfile, error) { return nil, nil },
	)))
	require.NoError(t, store.SetSession(ctx, "tok", &models.UserProfile{Role: models.RoleUser}))
	require.NoError(t, store.SetSession(ctx, "tok", &models.UserProfile{Role: models.RoleAdmin}))
	// изменение, не влияющее на решение, не порождает события
	require.NoError(t, store.UpdateUser(&models.UserProfile{Role: models.RoleAdmin, FullName: "A"}))
	require.NoError(t, store.ClearSession(ctx))

	assert.Equal(t, []Decision{
		{State: Restoring},
		{State: Denied, Redirect: "/login?next=%2Fadmin"},
		{State: Denied, Redirect: "/dashboard"},
		{State: Granted},
		{State: Denied, Redirect: "/login?next=%2Fadmin"},
	}, decisions)
}

func TestWatch_ConcurrentSessionChanges(t *testing.T) {
	ctx := context.Background()
	store := session.New(nil, tokenstore.NewMemory())
	require.NoError(t, store.Restore(ctx, session.ProfileFetcherFunc(
		func(context.Context, string) (*models.UserProfile, error) { return nil, nil },
	)))

	var (
		mu        sync.Mutex
		decisions []Decision
	)
	stop := Watch(store, Admin(), "/admin", func(d Decision) {
		mu.Lock()
		decisions = append(decisions, d)
		mu.Unlock()
	})
	defer stop()

	admin := &models.UserProfile{Role: models.RoleAdmin}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if (i+j)%2 == 0 {
					assert.NoError(t, store.SetSession(ctx, "tok", admin))
				} else {
					assert.NoError(t, store.ClearSession(ctx))
				}
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, decisions)
	// последнее решение соответствует итоговому состоянию сессии
	assert.Equal(t, Admin().Evaluate(store.Snapshot(), "/admin"), decisions[len(decisions)-1])
	for i := 1; i < len(decisions); i++ {
		assert.NotEqual(t, decisions[i-1], decisions[i], "repeated decision at %d", i)
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "restoring", Restoring.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "granted", Granted.String())
}
