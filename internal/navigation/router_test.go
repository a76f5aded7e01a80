package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/workshop-portal/internal/guard"
	"github.com/magabrotheeeer/workshop-portal/internal/layout"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/session"
)

func snap(role models.Role) session.Snapshot {
	if role == "" {
		return session.Snapshot{}
	}
	return session.Snapshot{Token: "tok", User: &models.UserProfile{Role: role}}
}

func TestRouter_Match(t *testing.T) {
	r := NewRouter(DefaultRoutes())

	tests := []struct {
		target     string
		wantPage   Page
		wantParams map[string]string
		wantOK     bool
	}{
		{target: "/", wantPage: PageHome, wantParams: map[string]string{}, wantOK: true},
		{target: "/workshops", wantPage: PageWorkshopList, wantParams: map[string]string{}, wantOK: true},
		{target: "/workshops/", wantPage: PageWorkshopList, wantParams: map[string]string{}, wantOK: true},
		{target: "/workshops/abc", wantPage: PageWorkshopDetail, wantParams: map[string]string{"id": "abc"}, wantOK: true},
		{target: "/registration/w1?x=1", wantPage: PageRegistration, wantParams: map[string]string{"workshopId": "w1"}, wantOK: true},
		{target: "/admin/workshops/new", wantPage: PageAdminWorkshopNew, wantParams: map[string]string{}, wantOK: true},
		{target: "/admin/workshops/edit/42", wantPage: PageAdminWorkshopEdit, wantParams: map[string]string{"id": "42"}, wantOK: true},
		{target: "/dashboard/profile", wantPage: PageUserProfile, wantParams: map[string]string{}, wantOK: true},
		{target: "/nope", wantOK: false},
		{target: "/admin/workshops/edit", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			m, ok := r.Match(tt.target)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantPage, m.Route.Page)
			assert.Equal(t, tt.wantParams, m.Params)
		})
	}
}

func TestRouter_MatchQuery(t *testing.T) {
	r := NewRouter(DefaultRoutes())
	m, ok := r.Match("/login?next=%2Fadmin")
	require.True(t, ok)
	assert.Equal(t, "/admin", m.Query.Get("next"))
}

func TestRouter_Resolve(t *testing.T) {
	r := NewRouter(DefaultRoutes())

	tests := []struct {
		name          string
		snap          session.Snapshot
		target        string
		wantPage      Page
		wantTarget    string
		wantChrome    layout.Chrome
		wantState     guard.State
		wantRedirects []string
	}{
		{
			name: "public page", snap: snap(""), target: "/workshops",
			wantPage: PageWorkshopList, wantTarget: "/workshops", wantChrome: layout.Public, wantState: guard.Granted,
		},
		{
			name: "unknown path goes home", snap: snap(""), target: "/unknown/page",
			wantPage: PageHome, wantTarget: "/", wantChrome: layout.Public, wantState: guard.Granted,
			wantRedirects: []string{"/"},
		},
		{
			name: "anonymous dashboard goes to login", snap: snap(""), target: "/dashboard",
			wantPage: PageLogin, wantTarget: "/login?next=%2Fdashboard", wantChrome: layout.Public, wantState: guard.Granted,
			wantRedirects: []string{"/login?next=%2Fdashboard"},
		},
		{
			name: "user on admin goes to user dashboard", snap: snap(models.RoleUser), target: "/admin",
			wantPage: PageUserDashboard, wantTarget: "/dashboard", wantChrome: layout.UserDashboard, wantState: guard.Granted,
			wantRedirects: []string{"/dashboard"},
		},
		{
			name: "admin on admin", snap: snap(models.RoleAdmin), target: "/admin/users",
			wantPage: PageAdminUsers, wantTarget: "/admin/users", wantChrome: layout.AdminDashboard, wantState: guard.Granted,
		},
		{
			name: "admin on user dashboard", snap: snap(models.RoleAdmin), target: "/dashboard",
			wantPage: PageUserDashboard, wantTarget: "/dashboard", wantChrome: layout.UserDashboard, wantState: guard.Granted,
		},
		{
			name: "restoring session waits", snap: session.Snapshot{RestoreInProgress: true}, target: "/admin",
			wantPage: PageAdminDashboard, wantTarget: "/admin", wantChrome: layout.AdminDashboard, wantState: guard.Restoring,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := r.Resolve(tt.snap, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, view.Route.Page)
			assert.Equal(t, tt.wantTarget, view.Target)
			assert.Equal(t, tt.wantChrome, view.Chrome)
			assert.Equal(t, tt.wantState, view.Decision.State)
			assert.Equal(t, tt.wantRedirects, view.Redirects)
			assert.NotEmpty(t, view.Menu)
		})
	}
}

func TestRouter_RedirectLoop(t *testing.T) {
	loop := guard.Authenticated()
	r := NewRouter([]Route{
		{Pattern: "/", Page: PageHome, Guard: &loop},
		{Pattern: "/login", Page: PageLogin, Guard: &loop},
	})

	_, err := r.Resolve(session.Snapshot{}, "/")
	assert.ErrorIs(t, err, ErrTooManyRedirects)
}

func TestNewRouter_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRouter([]Route{{Pattern: "/a"}, {Pattern: "/a"}})
	})
}

func TestNavigator(t *testing.T) {
	n := NewNavigator("")
	assert.Equal(t, "/", n.Current())

	var seen []string
	unsubscribe := n.Subscribe(func(target string) { seen = append(seen, target) })

	n.Go("/login?next=%2Fadmin")
	n.Go("/login?next=%2Fadmin")
	n.Go("")
	assert.Equal(t, "/login", n.CurrentPath())

	unsubscribe()
	n.Go("/admin")

	assert.Equal(t, []string{"/login?next=%2Fadmin"}, seen)
	assert.Equal(t, []string{"/", "/login?next=%2Fadmin"}, n.History())
	assert.Equal(t, "/admin", n.Current())
}
