// Package notify реализует канал кратковременных уведомлений.
// Видно не больше одного уведомления: новое вытесняет предыдущее,
// каждое исчезает само через заданный интервал.
package notify

import (
	"sync"
	"time"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

// DefaultDuration — время показа уведомления по умолчанию.
const DefaultDuration = 6 * time.Second

// Publisher — то, что нужно компонентам, которые сообщают об итогах действий.
type Publisher interface {
	Success(msg string) models.Notification
	Error(msg string) models.Notification
	Info(msg string) models.Notification
	Warning(msg string) models.Notification
}

// Channel хранит текущее уведомление и рассылает изменения подписчикам.
// Подписчик получает nil, когда уведомление скрыто.
type Channel struct {
	duration time.Duration
	now      func() time.Time

	mu      sync.Mutex
	current *models.Notification
	seq     uint64
	timer   *time.Timer

	subsMu  sync.Mutex
	subs    map[uint64]func(*models.Notification)
	nextSub uint64
}

// New создаёт канал. Неположительный duration заменяется на DefaultDuration.
func New(duration time.Duration) *Channel {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Channel{
		duration: duration,
		now:      time.Now,
		subs:     make(map[uint64]func(*models.Notification)),
	}
}

// Publish показывает уведомление, вытесняя текущее.
func (c *Channel) Publish(severity models.Severity, msg string) models.Notification {
	c.mu.Lock()
	c.seq++
	now := c.now()
	n := models.Notification{
		ID:        c.seq,
		Message:   msg,
		Severity:  severity,
		CreatedAt: now,
		ExpiresAt: now.Add(c.duration),
	}
	c.current = &n
	if c.timer != nil {
		c.timer.Stop()
	}
	id := n.ID
	c.timer = time.AfterFunc(c.duration, func() { c.expire(id) })
	c.mu.Unlock()

	copied := n
	c.publish(&copied)
	return n
}

func (c *Channel) Success(msg string) models.Notification {
	return c.Publish(models.SeveritySuccess, msg)
}

func (c *Channel) Error(msg string) models.Notification {
	return c.Publish(models.SeverityError, msg)
}

func (c *Channel) Info(msg string) models.Notification {
	return c.Publish(models.SeverityInfo, msg)
}

func (c *Channel) Warning(msg string) models.Notification {
	return c.Publish(models.SeverityWarning, msg)
}

// Current возвращает видимое уведомление.
func (c *Channel) Current() (models.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return models.Notification{}, false
	}
	return *c.current, true
}

// Dismiss скрывает текущее уведомление.
func (c *Channel) Dismiss() {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return
	}
	c.hideLocked()
	c.mu.Unlock()
	c.publish(nil)
}

// таймер мог сработать уже после того, как уведомление вытеснили
func (c *Channel) expire(id uint64) {
	c.mu.Lock()
	if c.current == nil || c.current.ID != id {
		c.mu.Unlock()
		return
	}
	c.hideLocked()
	c.mu.Unlock()
	c.publish(nil)
}

func (c *Channel) hideLocked() {
	c.current = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Subscribe регистрирует обработчик изменений. Возвращает функцию отписки.
func (c *Channel) Subscribe(fn func(*models.Notification)) (unsubscribe func()) {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		delete(c.subs, id)
		c.subsMu.Unlock()
	}
}

func (c *Channel) publish(n *models.Notification) {
	c.subsMu.Lock()
	handlers := make([]func(*models.Notification), 0, len(c.subs))
	for _, fn := range c.subs {
		handlers = append(handlers, fn)
	}
	c.subsMu.Unlock()

	for _, fn := range handlers {
		fn(n)
	}
}
