package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/workshop-portal/internal/http/response"
	"github.com/magabrotheeeer/workshop-portal/internal/metrics"
)

// LoginLimiter ограничивает частоту попыток входа с одного адреса.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	log      *slog.Logger
	metrics  *metrics.Server
}

// NewLoginLimiter создаёт ограничитель: perSecond попыток в секунду и burst подряд.
func NewLoginLimiter(perSecond float64, burst int, log *slog.Logger, m *metrics.Server) *LoginLimiter {
	return &LoginLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		log:      log,
		metrics:  m,
	}
}

func (l *LoginLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// Middleware отвечает 429, когда лимит адреса исчерпан.
func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !l.limiter(host).Allow() {
			l.log.Warn("too many login attempts", slog.String("remote", host))
			if l.metrics != nil {
				l.metrics.LoginThrottled.Inc()
			}
			response.JSON(w, r, http.StatusTooManyRequests, response.Error("Too many login attempts. Please try again later."))
			return
		}
		next.ServeHTTP(w, r)
	})
}
