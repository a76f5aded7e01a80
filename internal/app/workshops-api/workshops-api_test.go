package workshopsapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	workshopsapi "github.com/magabrotheeeer/workshop-portal/internal/app/workshops-api"
	"github.com/magabrotheeeer/workshop-portal/internal/config"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

func newApp(t *testing.T) *workshopsapi.App {
	t.Helper()
	app, err := workshopsapi.New(context.Background(), &config.Config{
		JWTToken: config.JWTToken{JWTSecretKey: "test-secret", TokenTTL: time.Hour},
		FakeAPI: config.FakeAPI{
			OTPTTL:        30 * time.Minute,
			LoginRate:     1000,
			LoginBurst:    1000,
			AdminEmail:    "admin@example.com",
			AdminPassword: "admin-pass-1",
			BcryptCost:    bcrypt.MinCost,
		},
	}, nil)
	require.NoError(t, err)
	return app
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/auth/login", "",
		`{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestRoutes_Health(t *testing.T) {
	h := newApp(t).Handler()

	rec := do(t, h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRoutes_SeedAdminCanLogin(t *testing.T) {
	h := newApp(t).Handler()
	token := login(t, h, "admin@example.com", "admin-pass-1")

	rec := do(t, h, http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var me models.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "admin@example.com", me.Email)
	assert.Equal(t, models.RoleAdmin, me.Role)

	rec = do(t, h, http.MethodGet, "/api/admin/dashboard", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_ProtectedWithoutToken(t *testing.T) {
	h := newApp(t).Handler()

	for _, path := range []string{"/api/auth/me", "/api/users/me", "/api/registrations/me", "/api/admin/users"} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, path, "", "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			assert.JSONEq(t, `{"detail":"Not authenticated"}`, rec.Body.String())
		})
	}
}

func TestRoutes_StudentIsForbiddenFromAdmin(t *testing.T) {
	app := newApp(t)
	h := app.Handler()

	_, err := app.Services().Auth.Register(context.Background(), models.RegisterRequest{
		FullName:    "Student One",
		Email:       "student@example.com",
		Password:    "student-pass-1",
		Grade:       8,
		School:      "City School",
		Phone:       "+10000000001",
		ParentName:  "Parent One",
		ParentPhone: "+10000000002",
	})
	require.NoError(t, err)
	token := login(t, h, "student@example.com", "student-pass-1")

	rec := do(t, h, http.MethodGet, "/api/admin/users", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"detail":"Not enough permissions"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/workshops/", token, `{"title":"x"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoutes_ValidationErrorShape(t *testing.T) {
	h := newApp(t).Handler()

	rec := do(t, h, http.MethodPost, "/api/auth/login", "", `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Detail []struct {
			Loc []string `json:"loc"`
			Msg string   `json:"msg"`
		} `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Detail)

	var fields []string
	for _, d := range resp.Detail {
		fields = append(fields, d.Loc[len(d.Loc)-1])
	}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestRoutes_NotFound(t *testing.T) {
	h := newApp(t).Handler()

	rec := do(t, h, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())
}

func TestRoutes_Metrics(t *testing.T) {
	h := newApp(t).Handler()
	do(t, h, http.MethodGet, "/health", "", "")

	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "workshops_api_requests_total")
}
