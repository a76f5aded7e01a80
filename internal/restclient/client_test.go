package restclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", nil, 0, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       any
		wantToken  string
		wantDetail string
		wantStatus int
	}{
		{
			name:      "success",
			status:    http.StatusOK,
			body:      map[string]string{"access_token": "tok", "token_type": "bearer"},
			wantToken: "tok",
		},
		{
			name:       "bad credentials with detail",
			status:     http.StatusBadRequest,
			body:       map[string]string{"detail": "Invalid credentials"},
			wantDetail: "Invalid credentials",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unauthorized without body",
			status:     http.StatusUnauthorized,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/auth/login", r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)

				var creds models.Credentials
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "x@x.com", creds.Email)

				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			})

			token, err := c.Login(context.Background(), models.Credentials{Email: "x@x.com", Password: "pw"})
			if tt.wantStatus != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantStatus, StatusCode(err))
				assert.Equal(t, tt.wantDetail, Detail(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestClient_LoginWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token_type": "bearer"})
	})

	_, err := c.Login(context.Background(), models.Credentials{Email: "a", Password: "b"})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestClient_MeExplicitToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer explicit", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"_id":       "u1",
			"email":     "a@example.com",
			"full_name": "A",
			"role":      "admin",
		})
	})

	profile, err := c.Me(context.Background(), "explicit")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)
	assert.True(t, profile.IsAdmin())
}

func TestClient_ValidationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{
				{"loc": []any{"body", "email"}, "msg": "value is not a valid email address", "type": "value_error"},
				{"loc": []any{"body", "grade"}, "msg": "ensure this value is less than or equal to 12", "type": "value_error"},
			},
		})
	})

	_, err := c.Register(context.Background(), models.RegisterRequest{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, map[string]string{
		"email": "value is not a valid email address",
		"grade": "ensure this value is less than or equal to 12",
	}, FieldErrors(err))
	assert.Contains(t, Detail(err), "valid email")
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL, nil, 0, nil)

	_, err := c.Workshops(context.Background(), models.WorkshopFilter{})
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, 0, StatusCode(err))
	assert.Empty(t, Detail(err))
}

func TestClient_WorkshopsQuery(t *testing.T) {
	featured := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "upcoming", q.Get("status"))
		assert.Equal(t, "7", q.Get("grade"))
		assert.Equal(t, "true", q.Get("featured"))
		assert.Equal(t, "robots", q.Get("search"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.False(t, q.Has("skip"))
		writeJSON(w, http.StatusOK, []map[string]any{{"_id": "w1", "title": "Robotics"}})
	})

	list, err := c.Workshops(context.Background(), models.WorkshopFilter{
		Status: "upcoming", Grade: 7, Featured: &featured, Search: "robots", Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Robotics", list[0].Title)
}

func TestClient_DeleteNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/registrations/r1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.CancelRegistration(context.Background(), "r1"))
}

func TestFieldError_Field(t *testing.T) {
	assert.Equal(t, "email", FieldError{Loc: []any{"body", "email"}}.Field())
	assert.Equal(t, "grade", FieldError{Loc: []any{"body", "grade", 0.0}}.Field())
	assert.Equal(t, "", FieldError{Loc: []any{"body"}}.Field())
}
