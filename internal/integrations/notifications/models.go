package notifications

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	TopicAppointmentCreated   = "appointment.created"
	TopicAppointmentCancelled = "appointment.cancelled"

	EventAppointmentCreated   = "appointment.created"
	EventAppointmentCancelled = "appointment.cancelled"
)

// ErrPublish возвращается, когда событие не удалось отправить
var ErrPublish = errors.New("notifications: failed to publish event")

// AppointmentEvent тело события о записи
type AppointmentEvent struct {
	EventID       string         `json:"eventId"`
	EventType     string         `json:"eventType"`
	OccurredAt    string         `json:"occurredAt"`
	AppointmentID int64          `json:"appointmentId"`
	CustomerID    *string        `json:"customerId,omitempty"`
	Date          string         `json:"date"`
	StartTime     string         `json:"startTime"`
	Status        string         `json:"status"`
	ClientName    string         `json:"clientName"`
	ClientPhone   string         `json:"clientPhone"`
	Services      []EventService `json:"services"`
}

// EventService услуга в событии
type EventService struct {
	ServiceID int64   `json:"serviceId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

func newAppointmentEvent(eventID, eventType string, a *domain.Appointment, now time.Time) AppointmentEvent {
	event := AppointmentEvent{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    now.UTC().Format(time.RFC3339),
		AppointmentID: a.ID,
		Date:          a.BookingDate.Format(domain.DateFormat),
		StartTime:     a.StartTime.String(),
		Status:        string(a.Status),
		ClientName:    a.ClientName,
		ClientPhone:   a.ClientPhone,
		Services:      make([]EventService, 0, len(a.Services)),
	}

	if id, ok := a.Customer.Get(); ok {
		s := id.String()
		event.CustomerID = &s
	}

	for _, s := range a.Services {
		event.Services = append(event.Services, EventService{
			ServiceID: s.ServiceID,
			Name:      s.Name,
			Price:     s.Price,
		})
	}

	return event
}
