package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"minflow/pkg/apperror"
	"minflow/pkg/logger"
)

// writeJSON кодирует ответ. Ошибку кодирования чинить поздно — заголовок
// уже ушёл, остаётся залогировать.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("Failed to encode response", "error", err)
	}
}

// decodeJSON разбирает тело запроса в dst и переводит ошибки декодера в
// invalid_argument. Слишком большое тело (MaxBytesHandler) отдаёт 400 с
// понятным сообщением вместо обрыва соединения.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return apperror.New(apperror.CodeInvalidArgument, "request body is empty")
	case errors.As(err, &maxBytesErr):
		return apperror.Newf(apperror.CodeInvalidArgument, "request body exceeds %d bytes", maxBytesErr.Limit)
	default:
		return apperror.Wrap(err, apperror.CodeInvalidArgument, "malformed JSON request body")
	}
}
