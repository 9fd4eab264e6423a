package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	maxBodyBytes     = 1 << 20
)

// ErrorBody описание ошибки
type ErrorBody struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля запрещены
func DecodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError отправляет ошибку заданного вида
func RespondError(w http.ResponseWriter, status int, kind, reason string) {
	RespondJSON(w, status, ErrorResponse{Error: ErrorBody{Kind: kind, Reason: reason}})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, reason string) {
	RespondError(w, http.StatusBadRequest, domain.KindValidation, reason)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, reason string) {
	RespondError(w, http.StatusNotFound, domain.KindNotFound, reason)
}

// RespondInternalError 500 без деталей
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, domain.KindInternal, msgInternalError)
}

// StatusOf HTTP статус для вида ошибки
func StatusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindPolicyViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отправляет ошибку usecase или сервиса.
// Причина внутренних ошибок клиенту не раскрывается.
func RespondDomainError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		RespondInternalError(w)
		return
	}
	RespondError(w, status, domain.KindOf(err), err.Error())
}

// IsClientError true для ошибок, вызванных запросом клиента
func IsClientError(err error) bool {
	return StatusOf(err) < http.StatusInternalServerError
}

var errInvalidPathParam = errors.New("invalid path parameter")

// PathID читает положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", errInvalidPathParam, name, raw)
	}
	return id, nil
}

// ParseDate разбирает дату YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}

// ParseDateOrTime разбирает RFC3339 или YYYY-MM-DD (полночь UTC)
func ParseDateOrTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return ParseDate(s)
}
