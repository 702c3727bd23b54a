package schedule

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот расписания не найден
	ErrSlotNotFound = fmt.Errorf("schedule: slot %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных данных слота
	ErrInvalidInput = fmt.Errorf("schedule: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("schedule: internal error: %w", domain.ErrUnavailable)
)
