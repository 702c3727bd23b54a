package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ServiceRefResponse услуга в составе записи
type ServiceRefResponse struct {
	ServiceID       int64   `json:"serviceId"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

// AppointmentResponse запись клиента
type AppointmentResponse struct {
	ID                   int64                `json:"id"`
	CustomerID           *string              `json:"customerId"`
	Date                 string               `json:"date"`
	StartTime            string               `json:"startTime"`
	Status               string               `json:"status"`
	ClientName           string               `json:"clientName"`
	ClientPhone          string               `json:"clientPhone"`
	Services             []ServiceRefResponse `json:"services"`
	TotalPrice           float64              `json:"totalPrice"`
	TotalDurationMinutes int                  `json:"totalDurationMinutes"`
	CancelledAt          *string              `json:"cancelledAt,omitempty"`
	CreatedAt            string               `json:"createdAt"`
	UpdatedAt            string               `json:"updatedAt"`
}

// FromDomainAppointment конвертирует запись в HTTP ответ
func FromDomainAppointment(a *domain.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:                   a.ID,
		Date:                 a.BookingDate.Format(domain.DateFormat),
		StartTime:            a.StartTime.String(),
		Status:               string(a.Status),
		ClientName:           a.ClientName,
		ClientPhone:          a.ClientPhone,
		Services:             make([]ServiceRefResponse, 0, len(a.Services)),
		TotalPrice:           a.TotalPrice(),
		TotalDurationMinutes: a.TotalDurationMinutes(),
		CreatedAt:            a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            a.UpdatedAt.Format(time.RFC3339),
	}

	if id, ok := a.Customer.Get(); ok {
		s := id.String()
		resp.CustomerID = &s
	}
	if a.CancelledAt != nil {
		s := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &s
	}
	for _, s := range a.Services {
		resp.Services = append(resp.Services, ServiceRefResponse{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			Price:           s.Price,
			DurationMinutes: s.DurationMinutes,
		})
	}

	return resp
}

// FromDomainAppointments конвертирует список записей
func FromDomainAppointments(items []*domain.Appointment) []AppointmentResponse {
	result := make([]AppointmentResponse, 0, len(items))
	for _, a := range items {
		result = append(result, FromDomainAppointment(a))
	}
	return result
}

// RewardAccountResponse бонусный счет клиента
type RewardAccountResponse struct {
	CustomerID           string `json:"customerId"`
	ServiceCount         int    `json:"serviceCount"`
	FreeServiceAvailable bool   `json:"freeServiceAvailable"`
	UpdatedAt            string `json:"updatedAt"`
}

// FromDomainRewardAccount конвертирует бонусный счет
func FromDomainRewardAccount(a *domain.RewardAccount) RewardAccountResponse {
	return RewardAccountResponse{
		CustomerID:           a.CustomerID.String(),
		ServiceCount:         a.ServiceCount,
		FreeServiceAvailable: a.FreeServiceAvailable,
		UpdatedAt:            a.UpdatedAt.Format(time.RFC3339),
	}
}

// RewardPolicyResponse правило начисления бонусов
type RewardPolicyResponse struct {
	ServicesForReward int    `json:"servicesForReward"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

// FromDomainRewardPolicy конвертирует правило начисления
func FromDomainRewardPolicy(p *domain.RewardPolicy) RewardPolicyResponse {
	resp := RewardPolicyResponse{ServicesForReward: p.ServicesForReward}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// SlotTemplateResponse слот недельного расписания
type SlotTemplateResponse struct {
	ID          int64  `json:"id"`
	DayOfWeek   int    `json:"dayOfWeek"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

// FromDomainSlotTemplate конвертирует слот расписания
func FromDomainSlotTemplate(t *domain.WeeklySlotTemplate) SlotTemplateResponse {
	return SlotTemplateResponse{
		ID:          t.ID,
		DayOfWeek:   t.DayOfWeek,
		StartTime:   t.StartTime.String(),
		EndTime:     t.EndTime.String(),
		IsAvailable: t.IsAvailable,
	}
}

// PathInt64 читает положительный числовой параметр пути
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid path parameter %s=%q", name, raw)
	}
	return id, nil
}

// PathUUID читает параметр пути в формате UUID
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid path parameter %s=%q: %w", name, raw, err)
	}
	return id, nil
}

// ParseDate разбирает дату в формате YYYY-MM-DD
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(domain.DateFormat, raw)
}
