// Package apierr описывает ошибки бизнес-логики workshops-api, которые
// HTTP-слой отдаёт клиенту как есть: код ответа и текст detail.
package apierr

import (
	"errors"
	"net/http"
)

// Error — ошибка с кодом HTTP и текстом для клиента.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

// New создаёт ошибку с кодом status.
func New(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

// BadRequest — 400.
func BadRequest(detail string) *Error { return New(http.StatusBadRequest, detail) }

// Unauthorized — 401.
func Unauthorized(detail string) *Error { return New(http.StatusUnauthorized, detail) }

// Forbidden — 403.
func Forbidden(detail string) *Error { return New(http.StatusForbidden, detail) }

// NotFound — 404.
func NotFound(detail string) *Error { return New(http.StatusNotFound, detail) }

// From извлекает *Error из цепочки err.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
