// Package guard решает, можно ли показать защищённый маршрут для текущей
// сессии. Пока идёт восстановление сессии, решение всегда Restoring:
// перенаправлять на вход до окончания восстановления нельзя.
package guard

import (
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/magabrotheeeer/workshop-portal/internal/session"
)

// State — состояние проверки маршрута.
type State int

const (
	Restoring State = iota
	Denied
	Granted
)

func (s State) String() string {
	switch s {
	case Restoring:
		return "restoring"
	case Denied:
		return "denied"
	case Granted:
		return "granted"
	default:
		return "unknown"
	}
}

// Пути, на которые ведут отказы.
const (
	LoginPath   = "/login"
	UserLanding = "/dashboard"
)

// Decision — результат проверки. Redirect заполнен только для Denied.
type Decision struct {
	State    State
	Redirect string
}

// Guard проверяет снимок сессии для запрошенного пути.
type Guard struct {
	name  string
	allow func(snap session.Snapshot) (ok bool, deniedTo string)
}

// Name возвращает имя проверки для логов и отладки.
func (g Guard) Name() string {
	return g.name
}

// Authenticated пропускает любого вошедшего пользователя, включая администратора.
func Authenticated() Guard {
	return Guard{
		name: "authenticated",
		allow: func(snap session.Snapshot) (bool, string) {
			return snap.IsAuthenticated(), ""
		},
	}
}

// Admin пропускает только администратора. Вошедший пользователь без прав
// уходит на свою панель, а не на страницу входа.
func Admin() Guard {
	return Guard{
		name: "admin",
		allow: func(snap session.Snapshot) (bool, string) {
			if !snap.IsAuthenticated() {
				return false, ""
			}
			if !snap.IsAdmin() {
				return false, UserLanding
			}
			return true, ""
		},
	}
}

// Evaluate проверяет снимок. requested — исходный путь, он сохраняется
// в параметре next при перенаправлении на вход.
func (g Guard) Evaluate(snap session.Snapshot, requested string) Decision {
	if snap.RestoreInProgress {
		return Decision{State: Restoring}
	}
	ok, deniedTo := g.allow(snap)
	if ok {
		return Decision{State: Granted}
	}
	if deniedTo == "" {
		deniedTo = LoginRedirect(requested)
	}
	return Decision{State: Denied, Redirect: deniedTo}
}

// LoginRedirect возвращает адрес входа с возвратом на requested.
func LoginRedirect(requested string) string {
	if requested == "" || requested == "/" || requested == LoginPath {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{"next": {requested}}.Encode()
}

// Source — наблюдаемая сессия.
type Source interface {
	Snapshot() session.Snapshot
	Subscribe(fn func(session.Snapshot)) (unsubscribe func())
}

// Watch сообщает решение сразу и затем при каждом изменении решения после
// изменения сессии. Так Denied сменяется на Granted после входа без
// повторного открытия маршрута.
//
// Вызовы fn последовательны. Снимки, пришедшие позже более нового снимка
// (по Generation), пропускаются, поэтому последнее решение всегда
// соответствует последнему состоянию сессии. fn не должна синхронно
// менять сессию.
func Watch(src Source, g Guard, requested string, fn func(Decision)) (stop func()) {
	w := &watcher{guard: g, requested: requested, fn: fn}

	w.mu.Lock()
	unsubscribe := src.Subscribe(w.update)
	snap := src.Snapshot()
	w.gen = snap.Generation
	w.last = g.Evaluate(snap, requested)
	fn(w.last)
	w.mu.Unlock()

	return func() {
		w.stopped.Store(true)
		unsubscribe()
	}
}

type watcher struct {
	guard     Guard
	requested string
	fn        func(Decision)
	stopped   atomic.Bool

	mu   sync.Mutex
	gen  uint64
	last Decision
}

func (w *watcher) update(snap session.Snapshot) {
	if w.stopped.Load() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if snap.Generation <= w.gen {
		return
	}
	w.gen = snap.Generation

	d := w.guard.Evaluate(snap, w.requested)
	if d == w.last {
		return
	}
	w.last = d
	w.fn(d)
}
