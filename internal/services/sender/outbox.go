package sender

import (
	"context"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
)

// Outbox складывает письма в память вместо отправки. Используется, когда
// SMTP не настроен, и в тестах, чтобы прочитать OTP.
type Outbox struct {
	mu    sync.Mutex
	mails []Mail
	log   *slog.Logger
}

// NewOutbox создаёт пустой Outbox.
func NewOutbox(log *slog.Logger) *Outbox {
	return &Outbox{log: sl.OrDiscard(log)}
}

// Send сохраняет письмо.
func (o *Outbox) Send(ctx context.Context, m Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	o.mails = append(o.mails, m)
	o.mu.Unlock()
	o.log.Info("mail stored in outbox", slog.String("to", m.To), slog.String("subject", m.Subject))
	return nil
}

// Mails возвращает копию всех сохранённых писем.
func (o *Outbox) Mails() []Mail {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Mail, len(o.mails))
	copy(out, o.mails)
	return out
}

// Last возвращает последнее письмо адресату to.
func (o *Outbox) Last(to string) (Mail, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.mails) - 1; i >= 0; i-- {
		if o.mails[i].To == to {
			return o.mails[i], true
		}
	}
	return Mail{}, false
}
