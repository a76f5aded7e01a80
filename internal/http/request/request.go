// Package request разбирает и проверяет тела запросов workshops-api.
package request

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/workshop-portal/internal/http/response"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/sl"
	"github.com/magabrotheeeer/workshop-portal/internal/lib/validate"
)

// maxBodySize ограничивает размер тела запроса.
const maxBodySize = 1 << 20

// Decode читает JSON-тело в dst и проверяет его тегами validate.
// При ошибке ответ уже записан и возвращается false.
func Decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, v *validate.Validator, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return false
	}

	if fields := v.Struct(dst); fields != nil {
		log.Info("validation failed", slog.Any("fields", fields))
		response.JSON(w, r, http.StatusUnprocessableEntity, response.ValidationError(fields))
		return false
	}
	return true
}
