package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusBooked, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ServiceRef is a snapshot of a catalog service taken at booking time
type ServiceRef struct {
	ServiceID       int64
	Name            string
	Price           float64
	DurationMinutes int
}

// Appointment represents a reservation of a time slot
type Appointment struct {
	ID          int64
	Customer    CustomerRef // guest bookings never carry an identity
	BookingDate time.Time   // calendar date, midnight UTC
	StartTime   types.TimeString
	Status      AppointmentStatus

	ClientName  string
	ClientPhone string
	Services    []ServiceRef

	IdempotencyKey *uuid.UUID
	CancelledAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanBeCancelled returns true if the appointment may move to cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusBooked
}

// CanBeCompleted returns true if the appointment may move to completed
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == StatusBooked
}

// TotalPrice returns the sum of the service prices
func (a *Appointment) TotalPrice() float64 {
	var total float64
	for _, s := range a.Services {
		total += s.Price
	}
	return total
}

// TotalDurationMinutes returns the sum of the service durations
func (a *Appointment) TotalDurationMinutes() int {
	var total int
	for _, s := range a.Services {
		total += s.DurationMinutes
	}
	return total
}

// AppointmentsFilter фильтр для получения списка записей
type AppointmentsFilter struct {
	Customer         *uuid.UUID // nil - все клиенты
	Date             *time.Time // nil - без ограничения по дате
	ExcludeCancelled bool       // по умолчанию возвращается вся история
}
