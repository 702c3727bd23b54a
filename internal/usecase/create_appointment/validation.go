package create_appointment

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует и нормализует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientPhone = strings.TrimSpace(req.ClientPhone)

	if req.ClientName == "" {
		return fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: client name is longer than %d characters", ErrInvalidInput, domain.MaxClientNameLength)
	}

	if req.ClientPhone == "" {
		return fmt.Errorf("%w: client phone is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.ClientPhone) > domain.MaxClientPhoneLength {
		return fmt.Errorf("%w: client phone is longer than %d characters", ErrInvalidInput, domain.MaxClientPhoneLength)
	}

	if err := validateServiceIDs(req.ServiceIDs); err != nil {
		return err
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

func validateServiceIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(ids) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per appointment", ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: service id must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate service id=%d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// validateNotInPast проверяет, что слот начинается позже текущего момента в часовом поясе бизнеса
func validateNotInPast(req *Request, now time.Time, loc *time.Location) error {
	slotStart, err := req.StartTime.On(req.Date, loc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if !slotStart.After(now) {
		return fmt.Errorf("%w: %s %s", ErrSlotInPast, req.Date.Format(domain.DateFormat), req.StartTime)
	}

	return nil
}

// matchesReplay проверяет, что повторный запрос описывает ту же запись: клиент, слот и набор услуг
func matchesReplay(existing *domain.Appointment, customer domain.CustomerRef, date time.Time, req *Request) bool {
	if existing.BookingDate.Format(domain.DateFormat) != date.Format(domain.DateFormat) ||
		existing.StartTime != req.StartTime {
		return false
	}

	existingID, existingOk := existing.Customer.Get()
	requestID, requestOk := customer.Get()
	if existingOk != requestOk || existingID != requestID {
		return false
	}

	if len(existing.Services) != len(req.ServiceIDs) {
		return false
	}
	requested := make(map[int64]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		requested[id] = struct{}{}
	}
	for _, s := range existing.Services {
		if _, ok := requested[s.ServiceID]; !ok {
			return false
		}
	}

	return true
}

// civilDate отбрасывает время и часовой пояс, оставляя календарную дату
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
