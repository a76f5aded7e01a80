// Package validate оборачивает go-playground/validator: имена полей берутся
// из тегов json, ошибки превращаются в сообщения для форм.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// Validator проверяет структуры по тегам validate.
type Validator struct {
	v *validator.Validate
}

// New создаёт Validator, который называет поля по тегам json.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct проверяет s и возвращает ошибки по полям или nil.
// Если s не структура, возвращается ошибка под ключом "_".
func (val *Validator) Struct(s any) map[string]string {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"_": err.Error()}
	}
	return Fields(errs)
}

// Fields превращает ошибки валидатора в сообщения поле -> текст.
// Для каждого поля остаётся первое нарушение.
func Fields(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, err := range errs {
		if _, exists := out[err.Field()]; exists {
			continue
		}
		out[err.Field()] = Message(err)
	}
	return out
}

// Message формирует человекочитаемый текст одного нарушения.
func Message(err validator.FieldError) string {
	switch err.ActualTag() {
	case "required":
		return "field is required"
	case "email":
		return "value is not a valid email address"
	case "numeric":
		return "value can contain only numbers"
	case "len":
		return fmt.Sprintf("value must be exactly %s characters long", err.Param())
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("value must be at least %s characters long", err.Param())
		}
		if err.Kind() == reflect.Slice {
			return fmt.Sprintf("value must contain at least %s items", err.Param())
		}
		return fmt.Sprintf("value must be greater than or equal to %s", err.Param())
	case "max":
		return fmt.Sprintf("value must be less than or equal to %s", err.Param())
	case "gt":
		return fmt.Sprintf("value must be greater than %s", err.Param())
	case "gte":
		return fmt.Sprintf("value must be greater than or equal to %s", err.Param())
	case "oneof":
		return fmt.Sprintf("value must be one of: %s", err.Param())
	default:
		return "value is not valid"
	}
}
