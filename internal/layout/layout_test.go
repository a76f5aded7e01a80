package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/session"
)

func paths(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Path)
	}
	return out
}

func TestSelect(t *testing.T) {
	assert.Equal(t, Public, Select(false, false))
	assert.Equal(t, Public, Select(false, true))
	assert.Equal(t, UserDashboard, Select(true, false))
	assert.Equal(t, AdminDashboard, Select(true, true))
}

func TestMenu(t *testing.T) {
	anon := session.Snapshot{}
	user := session.Snapshot{Token: "t", User: &models.UserProfile{Role: models.RoleUser}}
	admin := session.Snapshot{Token: "t", User: &models.UserProfile{Role: models.RoleAdmin}}

	tests := []struct {
		name   string
		chrome Chrome
		snap   session.Snapshot
		want   []string
	}{
		{name: "public anonymous", chrome: Public, snap: anon, want: []string{"/", "/workshops", "/login", "/register"}},
		{name: "public user", chrome: Public, snap: user, want: []string{"/", "/workshops", "/dashboard"}},
		{name: "public admin", chrome: Public, snap: admin, want: []string{"/", "/workshops", "/admin"}},
		{
			name: "user dashboard", chrome: UserDashboard, snap: user,
			want: []string{"/dashboard", "/dashboard/registrations", "/dashboard/profile", "/"},
		},
		{
			name: "admin dashboard", chrome: AdminDashboard, snap: admin,
			want: []string{"/admin", "/admin/workshops", "/admin/registrations", "/admin/users", "/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths(Menu(tt.chrome, tt.snap)))
		})
	}
}

func TestMenu_DoesNotShareBacking(t *testing.T) {
	items := Menu(UserDashboard, session.Snapshot{})
	items[0].Label = "changed"
	assert.Equal(t, "Dashboard", Menu(UserDashboard, session.Snapshot{})[0].Label)
}

func TestMenuItem_Active(t *testing.T) {
	item := MenuItem{Path: "/admin/users"}
	assert.True(t, item.Active("/admin/users"))
	assert.True(t, item.Active("/admin/users?page=2"))
	assert.False(t, item.Active("/admin"))
}
