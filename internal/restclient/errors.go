package restclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNoToken возвращается, если ответ на вход не содержит access_token.
var ErrNoToken = errors.New("login response has no access token")

// FieldError — ошибка проверки одного поля из ответа 422.
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Field возвращает имя поля: последний строковый элемент loc, кроме "body".
func (f FieldError) Field() string {
	for i := len(f.Loc) - 1; i >= 0; i-- {
		if s, ok := f.Loc[i].(string); ok && s != "body" {
			return s
		}
	}
	return ""
}

// Error — ответ API с кодом не из диапазона 2xx.
type Error struct {
	Status int
	// Detail — текстовое поле detail ответа, если оно есть.
	Detail string
	// Fields — ошибки полей из ответа 422 в виде поле -> сообщение.
	Fields map[string]string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

// NetworkError — запрос не получил ответа.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var fields []FieldError
	if err := json.Unmarshal(body.Detail, &fields); err == nil {
		apiErr.Fields = make(map[string]string, len(fields))
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			name := f.Field()
			if name == "" {
				name = "_"
			}
			if _, exists := apiErr.Fields[name]; !exists {
				apiErr.Fields[name] = f.Msg
			}
			msgs = append(msgs, f.Msg)
		}
		apiErr.Detail = strings.Join(msgs, "; ")
	}
	return apiErr
}

// StatusCode возвращает код ответа API или 0, если err не *Error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized сообщает, что API ответил 401.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsNotFound сообщает, что API ответил 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsValidation сообщает, что API отклонил поля запроса (422).
func IsValidation(err error) bool {
	return StatusCode(err) == http.StatusUnprocessableEntity
}

// IsNetwork сообщает, что запрос не получил ответа.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// Detail возвращает текст detail из ответа API или пустую строку.
func Detail(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// FieldErrors возвращает ошибки полей из ответа 422 или nil.
func FieldErrors(err error) map[string]string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
