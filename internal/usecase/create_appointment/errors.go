package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_appointment: invalid input data: %w", domain.ErrValidation)

	// ErrServiceNotFound возвращается, когда услуги нет в каталоге
	ErrServiceNotFound = fmt.Errorf("create_appointment: service not found: %w", domain.ErrValidation)

	// ErrSlotInPast возвращается при попытке записаться на прошедшее время
	ErrSlotInPast = fmt.Errorf("create_appointment: slot is in the past: %w", domain.ErrValidation)

	// ErrSlotNotOffered возвращается, когда в расписании нет включенного слота на это время
	ErrSlotNotOffered = fmt.Errorf("create_appointment: slot is not offered by the schedule: %w", domain.ErrValidation)

	// ErrIdempotencyKeyReused возвращается, когда ключ идемпотентности уже использован для другой записи
	ErrIdempotencyKeyReused = fmt.Errorf("create_appointment: idempotency key was used for a different appointment: %w", domain.ErrValidation)

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = fmt.Errorf("create_appointment: %w", domain.ErrSlotConflict)

	// ErrRewardUpdate возвращается, когда не удалось начислить бонус; запись не создается
	ErrRewardUpdate = fmt.Errorf("create_appointment: %w", domain.ErrRewardUpdate)

	// ErrCatalogUnavailable возвращается, когда каталог услуг недоступен
	ErrCatalogUnavailable = fmt.Errorf("create_appointment: catalog: %w", domain.ErrUnavailable)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("create_appointment: internal error: %w", domain.ErrUnavailable)
)
