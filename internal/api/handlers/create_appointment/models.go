package create_appointment

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP запрос на создание записи
type CreateAppointmentRequest struct {
	Date        string  `json:"date"`      // YYYY-MM-DD
	StartTime   string  `json:"startTime"` // HH:MM или HH:MM:SS
	ServiceIDs  []int64 `json:"serviceIds"`
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	WithAccount bool    `json:"withAccount"` // Привязать запись к аккаунту (нужен токен)
}

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid start time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(identity *middleware.Identity, idempotencyKey *uuid.UUID) (*createAppointment.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	req := &createAppointment.Request{
		WithAccount:    r.WithAccount,
		Date:           date,
		StartTime:      startTime,
		ServiceIDs:     r.ServiceIDs,
		ClientName:     r.ClientName,
		ClientPhone:    r.ClientPhone,
		IdempotencyKey: idempotencyKey,
	}
	if identity != nil {
		req.CustomerID = ptr.Ptr(identity.ID)
	}

	return req, nil
}
