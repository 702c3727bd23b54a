package appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("appointment.repository: appointment %w", domain.ErrNotFound)

	// ErrSlotTaken возвращается, когда на дату и время уже есть активная запись
	ErrSlotTaken = fmt.Errorf("appointment.repository: %w", domain.ErrSlotConflict)

	// ErrDuplicateIdempotencyKey возвращается при повторной вставке с тем же ключом идемпотентности
	ErrDuplicateIdempotencyKey = errors.New("appointment.repository: duplicate idempotency key")

	// ErrNoTransaction возвращается, когда операция требует транзакцию в контексте
	ErrNoTransaction = errors.New("appointment.repository: operation requires a transaction")

	// ErrInvalidStatus возвращается при попытке записать неизвестный статус
	ErrInvalidStatus = fmt.Errorf("appointment.repository: invalid status: %w", domain.ErrValidation)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("appointment.repository: failed to execute query: %w", domain.ErrUnavailable)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
