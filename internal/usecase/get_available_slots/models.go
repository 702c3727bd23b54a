package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	Date time.Time // Дата (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date  time.Time         // Дата, на которую запрашивались слоты
	Slots []domain.TimeSlot // Слоты, отсортированные по времени начала
}
