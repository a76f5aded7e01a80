// Package response формирует JSON-ответы workshops-api в формате бэкенда
// платформы: {"detail": "..."} для ошибок и
// {"detail": [{"loc": [...], "msg": "...", "type": "..."}]} для ошибок валидации.
package response

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/workshop-portal/internal/lib/apierr"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
)

// ErrorResponse — ошибка с текстом detail.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// FieldError — нарушение валидации одного поля.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationResponse — ответ 422 со списком нарушений.
type ValidationResponse struct {
	Detail []FieldError `json:"detail"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Detail: msg}
}

// ValidationError формирует ответ по ошибкам полей тела запроса.
// Поля упорядочены по имени.
func ValidationError(fields map[string]string) ValidationResponse {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := ValidationResponse{Detail: make([]FieldError, 0, len(names))}
	for _, name := range names {
		out.Detail = append(out.Detail, FieldError{
			Loc:  []string{"body", name},
			Msg:  fields[name],
			Type: "value_error",
		})
	}
	return out
}

// JSON пишет v с кодом status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// WriteError пишет ошибку сервиса. *apierr.Error отдаётся с его кодом и
// текстом, остальные ошибки логируются и превращаются в 500.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	if e, ok := apierr.From(err); ok {
		if e.Status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		JSON(w, r, e.Status, Error(e.Detail))
		return
	}
	log.Error("internal error", sl.Err(err))
	JSON(w, r, http.StatusInternalServerError, Error("Internal Server Error"))
}

// QueryError формирует ответ 422 для неверного параметра строки запроса.
func QueryError(name, msg string) ValidationResponse {
	return ValidationResponse{Detail: []FieldError{{
		Loc:  []string{"query", name},
		Msg:  msg,
		Type: "type_error",
	}}}
}
