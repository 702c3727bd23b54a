package cancel_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

type fakeService struct {
	actor domain.Actor
	id    int64
	err   error
}

func (f *fakeService) Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error) {
	f.actor, f.id = actor, id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Appointment{ID: id, Customer: domain.SomeCustomer(actor.CustomerID), Status: domain.StatusCancelled}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func cancelRequest(id string, identity *middleware.Identity) *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id+"/cancel", nil)
	r = mux.SetURLVars(r, map[string]string{"id": id})
	if identity != nil {
		r = r.WithContext(middleware.WithIdentity(r.Context(), *identity))
	}
	return r
}

func TestHandler_Cancel(t *testing.T) {
	customer := middleware.Identity{ID: uuid.New(), Role: "client"}

	tests := []struct {
		name     string
		id       string
		identity *middleware.Identity
		err      error
		want     int
	}{
		{name: "ok", id: "5", identity: &customer, want: http.StatusOK},
		{name: "no identity", id: "5", want: http.StatusUnauthorized},
		{name: "bad id", id: "abc", identity: &customer, want: http.StatusBadRequest},
		{name: "not found", id: "5", identity: &customer, err: appointments.ErrAppointmentNotFound, want: http.StatusNotFound},
		{name: "forbidden", id: "5", identity: &customer, err: appointments.ErrAccessDenied, want: http.StatusForbidden},
		{name: "completed", id: "5", identity: &customer, err: appointments.ErrCannotCancel, want: http.StatusBadRequest},
		{name: "store down", id: "5", identity: &customer, err: appointments.ErrInternal, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			w := httptest.NewRecorder()

			NewHandler(svc, nopLogger{}).Handle(w, cancelRequest(tt.id, tt.identity))

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, int64(5), svc.id)
				assert.Equal(t, customer.ID, svc.actor.CustomerID)
				assert.False(t, svc.actor.IsAdmin)
			}
		})
	}
}
