package appointments

import (
	"time"

	"github.com/google/uuid"
)

// ListRequest параметры выборки записей
type ListRequest struct {
	CustomerID       *uuid.UUID // Только для администратора, клиент всегда видит свои записи
	Date             *time.Time
	ExcludeCancelled bool
}
