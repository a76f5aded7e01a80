package cli

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/workshop-portal/internal/app/portal"
	workshopsapi "github.com/magabrotheeeer/workshop-portal/internal/app/workshops-api"
	"github.com/magabrotheeeer/workshop-portal/internal/authclient"
	"github.com/magabrotheeeer/workshop-portal/internal/config"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/pages"
	"github.com/magabrotheeeer/workshop-portal/internal/tokenstore"
)

const (
	adminEmail      = "admin@example.com"
	adminPassword   = "admin-pass-1"
	studentEmail    = "student@example.com"
	studentPassword = "student-pass-1"
)

// harness — тестовый сервер и общий слот токена, который переживает
// отдельные запуски команды, как файл на диске.
type harness struct {
	t    *testing.T
	srv  *httptest.Server
	api  *workshopsapi.App
	slot *tokenstore.Memory
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	ctx := context.Background()

	api, err := workshopsapi.New(ctx, &config.Config{
		Env:      "local",
		JWTToken: config.JWTToken{JWTSecretKey: "test-secret", TokenTTL: time.Hour},
		FakeAPI: config.FakeAPI{
			OTPTTL:        30 * time.Minute,
			LoginRate:     1000,
			LoginBurst:    1000,
			AdminEmail:    adminEmail,
			AdminPassword: adminPassword,
			OTPCache:      "memory",
			BcryptCost:    bcrypt.MinCost,
		},
	}, nil)
	require.NoError(t, err)

	_, err = api.Services().Auth.Register(ctx, models.RegisterRequest{
		FullName:    "Student One",
		Email:       studentEmail,
		Password:    studentPassword,
		Grade:       8,
		School:      "City School",
		Phone:       "+10000000001",
		ParentName:  "Parent One",
		ParentPhone: "+10000000002",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &harness{t: t, srv: srv, api: api, slot: tokenstore.NewMemory()}
}

func (h *harness) factory(ctx context.Context, cfg *config.Config, log *slog.Logger) (*portal.App, error) {
	cfg.TokenStore.Driver = "memory"
	cfg.Notifications.DisplayDuration = time.Minute
	return portal.New(ctx, cfg, log, portal.Options{
		Slot:     h.slot,
		Registry: prometheus.NewRegistry(),
	})
}

// run выполняет одну команду клиента и возвращает её вывод.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	cmd := NewRootCommand(h.factory)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--api", h.srv.URL + "/api"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) login(email, password string) {
	h.t.Helper()
	_, err := h.run("login", "--email", email, "--password", password)
	require.NoError(h.t, err)
}

func (h *harness) token() string {
	h.t.Helper()
	token, err := h.slot.Load(context.Background())
	require.NoError(h.t, err)
	return token
}

func TestCLI_LoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("login", "--email", studentEmail, "--password", studentPassword)
	require.NoError(t, err)
	assert.Contains(t, out, authclient.MsgLoginSuccess)
	assert.Contains(t, out, "My Registrations")
	assert.NotEmpty(t, h.token())

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, studentEmail)

	out, err = h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, authclient.MsgLoggedOut)
	assert.Empty(t, h.token())

	out, err = h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestCLI_LoginWithWrongPassword(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("login", "--email", studentEmail, "--password", "wrong-password")
	require.ErrorIs(t, err, ErrActionFailed)
	assert.Contains(t, out, "Incorrect email or password")
	assert.Empty(t, h.token())
}

func TestCLI_LoginWithoutPasswordShowsFieldErrors(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("login", "--email", studentEmail)
	require.ErrorIs(t, err, ErrActionFailed)
	assert.Contains(t, out, "password")
	assert.Empty(t, h.token())
}

func TestCLI_LoginFollowsNext(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("login", "--email", adminEmail, "--password", adminPassword, "--next", "/admin/users")
	require.NoError(t, err)
	assert.Contains(t, out, adminEmail)
	assert.Contains(t, out, studentEmail)
}

func TestCLI_GuestOpeningProtectedPageIsSentToLogin(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("open", "/admin")
	require.NoError(t, err)
	assert.Contains(t, out, "→ /login?next=%2Fadmin")
	assert.Contains(t, out, "workshops login")
}

func TestCLI_StudentOpeningAdminLandsOnDashboard(t *testing.T) {
	h := newHarness(t)
	h.login(studentEmail, studentPassword)

	out, err := h.run("admin", "users")
	require.NoError(t, err)
	assert.Contains(t, out, "→ /dashboard")
	assert.Contains(t, out, "My Registrations")

	// действие администратора не выполняется
	out, err = h.run("admin", "update-user", "some-id", "--role", "admin")
	require.ErrorIs(t, err, ErrActionFailed)
	assert.Contains(t, out, "→ /dashboard")
}

func TestCLI_RevokedTokenIsForgotten(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.slot.Save(context.Background(), "revoked-token"))

	out, err := h.run("dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "→ /login?next=%2Fdashboard")
	assert.Empty(t, h.token())
}

func TestCLI_WorkshopLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	day := time.Now().AddDate(0, 1, 0)

	h.login(adminEmail, adminPassword)
	out, err := h.run("admin", "create-workshop",
		"--title", "Robotics",
		"--description", "Build and program a robot",
		"--short-description", "Build a robot",
		"--image-url", "https://example.com/robot.png",
		"--start", day.Format("2006-01-02"),
		"--end", day.AddDate(0, 0, 4).Format("2006-01-02"),
		"--deadline", day.AddDate(0, 0, -7).Format("2006-01-02"),
		"--location", "Lab 3",
		"--max-participants", "20",
		"--grades", "7,8,9",
	)
	require.NoError(t, err)
	assert.Contains(t, out, pages.MsgWorkshopCreated)
	assert.Contains(t, out, "Robotics")

	list, err := h.api.Services().Workshops.List(ctx, models.WorkshopFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	workshopID := list[0].ID

	h.login(studentEmail, studentPassword)
	out, err = h.run("enroll", workshopID)
	require.NoError(t, err)
	assert.Contains(t, out, pages.MsgRegistrationSent)

	out, err = h.run("enroll", workshopID)
	require.ErrorIs(t, err, ErrActionFailed)
	assert.Contains(t, out, "You have already registered for this workshop")

	regs, err := h.api.Services().Admin.Registrations(ctx)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, studentEmail, regs[0].Email)

	h.login(adminEmail, adminPassword)
	out, err = h.run("admin", "review", regs[0].ID, "--status", models.RegistrationApproved)
	require.NoError(t, err)
	assert.Contains(t, out, "approved")

	out, err = h.run("admin", "export", workshopID, "--output", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"Student One","student@example.com",8`)
	assert.Contains(t, out, models.RegistrationApproved)

	// мастерскую с заявками удалить нельзя
	_, err = h.run("admin", "delete-workshop", workshopID)
	require.ErrorIs(t, err, ErrActionFailed)
}

func TestCLI_PasswordReset(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("forgot-password", "--email", studentEmail)
	require.NoError(t, err)
	assert.Contains(t, out, authclient.MsgResetRequested)

	mail, ok := h.api.Outbox().Last(studentEmail)
	require.True(t, ok)
	otp := regexp.MustCompile(`\d{6}`).FindString(mail.Body)
	require.NotEmpty(t, otp)

	out, err = h.run("reset-password", "--email", studentEmail, "--otp", otp, "--new-password", "new-pass-123")
	require.NoError(t, err)
	assert.Contains(t, out, authclient.MsgResetSuccess)

	_, err = h.run("login", "--email", studentEmail, "--password", studentPassword)
	require.ErrorIs(t, err, ErrActionFailed)

	h.login(studentEmail, "new-pass-123")
	assert.NotEmpty(t, h.token())
}

func TestFilterFromQuery(t *testing.T) {
	q := url.Values{
		"status":   {"upcoming"},
		"search":   {"robot"},
		"grade":    {"8"},
		"featured": {"true"},
		"skip":     {"x"},
		"limit":    {"5"},
	}
	f := filterFromQuery(q)

	assert.Equal(t, "upcoming", f.Status)
	assert.Equal(t, "robot", f.Search)
	assert.Equal(t, 8, f.Grade)
	assert.Equal(t, 0, f.Skip)
	assert.Equal(t, 5, f.Limit)
	require.NotNil(t, f.Featured)
	assert.True(t, *f.Featured)

	assert.Nil(t, filterFromQuery(url.Values{}).Featured)
}

func TestFilterRegistrations(t *testing.T) {
	list := []models.Registration{
		{ID: "1", WorkshopID: "w1", RegistrationStatus: models.RegistrationPending},
		{ID: "2", WorkshopID: "w1", RegistrationStatus: models.RegistrationApproved},
		{ID: "3", WorkshopID: "w2", RegistrationStatus: models.RegistrationPending},
	}

	assert.Len(t, filterRegistrations(list, url.Values{}), 3)

	got := filterRegistrations(list, url.Values{"workshop": {"w1"}, "status": {"PENDING"}})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestParseDate(t *testing.T) {
	ts, err := parseDate("2025-07-01T09:30")
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC).Equal(ts.Time))

	ts, err = parseDate("2025-07-01")
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).Equal(ts.Time))

	_, err = parseDate("01.07.2025")
	assert.Error(t, err)
}
