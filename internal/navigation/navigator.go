package navigation

import "sync"

// Navigator хранит текущий адрес приложения. Переходы выполняет слой
// интерфейса, остальные компоненты только сообщают, куда перейти.
type Navigator struct {
	mu      sync.Mutex
	current string
	history []string

	subsMu  sync.Mutex
	subs    map[uint64]func(string)
	nextSub uint64
}

// NewNavigator создаёт навигатор с начальным адресом start.
func NewNavigator(start string) *Navigator {
	if start == "" {
		start = FallbackPath
	}
	return &Navigator{
		current: start,
		subs:    make(map[uint64]func(string)),
	}
}

// Current возвращает текущий адрес.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// CurrentPath возвращает текущий путь без query.
func (n *Navigator) CurrentPath() string {
	cur := n.Current()
	for i, c := range cur {
		if c == '?' || c == '#' {
			return cur[:i]
		}
	}
	return cur
}

// History возвращает адреса, с которых уходили.
func (n *Navigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.history))
	copy(out, n.history)
	return out
}

// Go переходит по адресу. Пустой адрес игнорируется.
func (n *Navigator) Go(target string) {
	if target == "" {
		return
	}
	n.mu.Lock()
	if target == n.current {
		n.mu.Unlock()
		return
	}
	n.history = append(n.history, n.current)
	n.current = target
	n.mu.Unlock()

	n.subsMu.Lock()
	handlers := make([]func(string), 0, len(n.subs))
	for _, fn := range n.subs {
		handlers = append(handlers, fn)
	}
	n.subsMu.Unlock()
	for _, fn := range handlers {
		fn(target)
	}
}

// Subscribe регистрирует обработчик переходов.
func (n *Navigator) Subscribe(fn func(string)) (unsubscribe func()) {
	n.subsMu.Lock()
	id := n.nextSub
	n.nextSub++
	n.subs[id] = fn
	n.subsMu.Unlock()

	return func() {
		n.subsMu.Lock()
		delete(n.subs, id)
		n.subsMu.Unlock()
	}
}
