package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_available_slots: invalid input data: %w", domain.ErrValidation)

	// ErrStoreUnavailable возвращается, когда не удалось прочитать расписание или записи
	ErrStoreUnavailable = fmt.Errorf("get_available_slots: %w", domain.ErrUnavailable)
)
