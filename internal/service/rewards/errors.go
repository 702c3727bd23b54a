package rewards

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAccountNotFound возвращается, когда у клиента нет бонусного счета
	ErrAccountNotFound = fmt.Errorf("rewards: reward account %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда клиент запрашивает чужой счет
	ErrAccessDenied = fmt.Errorf("rewards: %w", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("rewards: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = fmt.Errorf("rewards: internal error: %w", domain.ErrUnavailable)
)
