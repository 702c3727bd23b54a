package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgValidation  = "некорректные данные запроса"
	msgNotFound    = "объект не найден"
	msgForbidden   = "доступ запрещен"
	msgConflict    = "выбранный временной слот уже занят"
	msgRewardRetry = "не удалось начислить бонус, запись не создана, повторите попытку"
	msgUnavailable = "сервис временно недоступен, повторите попытку позже"
)

// StatusFromError возвращает HTTP статус и сообщение по виду ошибки
func StatusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, msgValidation
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, domain.ErrSlotConflict):
		return http.StatusConflict, msgConflict
	case errors.Is(err, domain.ErrRewardUpdate):
		return http.StatusInternalServerError, msgRewardRetry
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, msgUnavailable
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

// RespondDomainError отправляет ответ по виду ошибки
// Для ошибок валидации и прочих вызывающий может передать более точное сообщение
func RespondDomainError(w http.ResponseWriter, err error, message string) {
	status, defaultMessage := StatusFromError(err)
	if message == "" || status >= http.StatusInternalServerError {
		message = defaultMessage
	}
	RespondError(w, status, message)
}
