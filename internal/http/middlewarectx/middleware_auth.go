// Package middlewarectx содержит HTTP middleware workshops-api.
//
// JWTMiddleware проверяет токен в заголовке Authorization и кладёт
// пользователя в контекст запроса. AdminOnly пропускает только
// администраторов. OptionalJWT определяет пользователя, если токен есть,
// и пропускает гостей.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/workshop-portal/internal/http/response"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/apierr"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/models"
	"github.com/magabrotheeeer/workshop-portal/internal/services"
	"github.com/magabrotheeeer/workshop-portal/internal/storage"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User — ключ пользователя (*storage.User) в контексте.
const User Key = "user"

// Authenticator проверяет токен и возвращает его владельца.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*storage.User, error)
}

// UserFromContext возвращает пользователя, положенного JWTMiddleware.
func UserFromContext(ctx context.Context) (*storage.User, bool) {
	u, ok := ctx.Value(User).(*storage.User)
	return u, ok && u != nil
}

// ActorFromContext возвращает пользователя запроса как services.Actor.
func ActorFromContext(ctx context.Context) services.Actor {
	u, ok := UserFromContext(ctx)
	if !ok {
		return services.Actor{}
	}
	return services.Actor{ID: u.ID, Role: u.Role}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// JWTMiddleware возвращает middleware, который требует действительный токен.
// Без заголовка отвечает 401 "Not authenticated".
func JWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				sl.Op(op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token, ok := bearer(r)
			if !ok {
				log.Info("missing or invalid authorization header")
				response.WriteError(w, r, log, apierr.Unauthorized(services.DetailNotAuthenticated))
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Info("token rejected", sl.Err(err))
				response.WriteError(w, r, log, err)
				return
			}

			ctx := context.WithValue(r.Context(), User, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWT определяет пользователя по токену, если он есть. Запрос без
// токена или с недействительным токеном обрабатывается как гостевой.
func OptionalJWT(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Debug("ignoring invalid token on public route",
					slog.String("request_id", middleware.GetReqID(r.Context())), sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), User, user)))
		})
	}
}

// AdminOnly пропускает только администраторов. Ставится после JWTMiddleware.
func AdminOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok || u.Role != models.RoleAdmin {
				log.Info("admin route denied",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				)
				response.WriteError(w, r, log, apierr.Forbidden(services.DetailNotEnoughRights))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
