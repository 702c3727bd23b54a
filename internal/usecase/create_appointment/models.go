package create_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID     *uuid.UUID       // ID клиента из токена, nil для гостя
	WithAccount    bool             // Привязать запись к аккаунту клиента
	Date           time.Time        // Дата записи (без времени)
	StartTime      types.TimeString // Время начала слота
	ServiceIDs     []int64          // Услуги каталога
	ClientName     string
	ClientPhone    string
	IdempotencyKey *uuid.UUID // Ключ идемпотентности из заголовка (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	Replayed    bool // Запись уже была создана ранее с тем же ключом идемпотентности
}
