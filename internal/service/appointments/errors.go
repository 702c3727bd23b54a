package appointments

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("appointments: appointment %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа к записи
	ErrAccessDenied = fmt.Errorf("appointments: %w", domain.ErrForbidden)

	// ErrCannotCancel возвращается при попытке отменить завершенную запись
	ErrCannotCancel = fmt.Errorf("appointments: completed appointment cannot be cancelled: %w", domain.ErrValidation)

	// ErrCannotComplete возвращается при попытке завершить отмененную запись
	ErrCannotComplete = fmt.Errorf("appointments: cancelled appointment cannot be completed: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("appointments: internal error: %w", domain.ErrUnavailable)
)
