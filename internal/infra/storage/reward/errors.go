package reward

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAccountNotFound возвращается, когда бонусный счет не найден
	ErrAccountNotFound = fmt.Errorf("reward.repository: reward account %w", domain.ErrNotFound)

	// ErrPolicyNotFound возвращается, когда строка с правилом начисления отсутствует
	ErrPolicyNotFound = fmt.Errorf("reward.repository: reward policy %w", domain.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reward.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("reward.repository: failed to execute query: %w", domain.ErrUnavailable)

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reward.repository: failed to scan row")
)
