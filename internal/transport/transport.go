// Package transport собирает http.RoundTripper для клиента REST API из
// цепочки middleware: идентификатор запроса, bearer-токен, обработка 401,
// метрики и логирование. Все исходящие запросы проходят через одну цепочку,
// поэтому страницам не нужно проверять 401 самостоятельно.
package transport

import (
	"context"
	"net/http"
)

// Middleware оборачивает RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc позволяет использовать функцию как http.RoundTripper.
type RoundTripperFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain оборачивает base в middlewares. Первый middleware внешний:
// он первым видит запрос и последним ответ.
func Chain(base http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		base = middlewares[i](base)
	}
	return base
}

type ctxKey int

const skipUnauthorizedKey ctxKey = iota

// SkipUnauthorized помечает запросы контекста: ответ 401 на них не
// сбрасывает сессию. Так делают вход и восстановление сессии, которые
// обрабатывают 401 сами.
func SkipUnauthorized(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipUnauthorizedKey, true)
}

// UnauthorizedSkipped сообщает, помечен ли контекст SkipUnauthorized.
func UnauthorizedSkipped(ctx context.Context) bool {
	skip, _ := ctx.Value(skipUnauthorizedKey).(bool)
	return skip
}
