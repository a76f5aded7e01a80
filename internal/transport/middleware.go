package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/metrics"
)

// RequestIDHeader — заголовок с идентификатором запроса.
const RequestIDHeader = "X-Request-ID"

// TokenSource отдаёт текущий bearer-токен или пустую строку.
type TokenSource interface {
	Token() string
}

// RequestID добавляет X-Request-ID, если его нет.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set(RequestIDHeader, uuid.NewString())
			return next.RoundTrip(req)
		})
	}
}

// Bearer добавляет Authorization: Bearer <token>, если токен есть и вызывающий
// не указал заголовок сам.
func Bearer(src TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "" {
				return next.RoundTrip(req)
			}
			token := src.Token()
			if token == "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(req)
		})
	}
}

// Unauthorized вызывает onUnauthorized для каждого ответа 401, кроме
// запросов с контекстом SkipUnauthorized. Ответ передаётся дальше без изменений.
func Unauthorized(onUnauthorized func(req *http.Request)) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil {
				return resp, err
			}
			if resp.StatusCode == http.StatusUnauthorized && !UnauthorizedSkipped(req.Context()) {
				onUnauthorized(req)
			}
			return resp, nil
		})
	}
}

// Metrics учитывает запросы в клиентских метриках.
func Metrics(m *metrics.Client) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			code := 0
			if err == nil {
				code = resp.StatusCode
			}
			m.ObserveRequest(req.Method, code, time.Since(start))
			return resp, err
		})
	}
}

// Logging пишет в лог каждый запрос на уровне Debug, сетевые ошибки на уровне Warn.
func Logging(log *slog.Logger) Middleware {
	log = sl.OrDiscard(log)
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			entry := log.With(
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("request_id", req.Header.Get(RequestIDHeader)),
			)
			start := time.Now()
			resp, err := next.RoundTrip(req)
			if err != nil {
				entry.Warn("request failed", sl.Err(err))
				return resp, err
			}
			entry.Debug("request completed",
				slog.Int("status", resp.StatusCode),
				slog.String("duration", time.Since(start).String()),
			)
			return resp, nil
		})
	}
}
