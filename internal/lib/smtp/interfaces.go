// Package smtp предоставляет интерфейсы и транспорт для отправки писем
// workshops-api через SMTP-сервер.
package smtp

import "io"

// Client — одна SMTP-сессия отправки письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Connector открывает SMTP-сессии от имени адреса From.
type Connector interface {
	Connect() (Client, error)
	// From возвращает адрес отправителя.
	From() string
}
