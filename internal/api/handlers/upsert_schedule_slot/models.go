package upsert_schedule_slot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// SlotTemplateRequest HTTP запрос на создание или изменение слота
type SlotTemplateRequest struct {
	DayOfWeek   *int   `json:"dayOfWeek"` // 0 - воскресенье
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable *bool  `json:"isAvailable"` // по умолчанию true
}

// ToDomain конвертирует запрос в слот расписания
func (r *SlotTemplateRequest) ToDomain(id int64) (*domain.WeeklySlotTemplate, error) {
	if r.DayOfWeek == nil {
		return nil, errors.New("dayOfWeek is required")
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}

	return &domain.WeeklySlotTemplate{
		ID:          id,
		DayOfWeek:   *r.DayOfWeek,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: available,
	}, nil
}
