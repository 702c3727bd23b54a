package get_reward_status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/rewards"
)

type fakeService struct {
	requested uuid.UUID
	err       error
}

func (f *fakeService) GetStatus(ctx context.Context, actor domain.Actor, customerID uuid.UUID) (*domain.RewardAccount, error) {
	f.requested = customerID
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RewardAccount{CustomerID: customerID, ServiceCount: 3}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandler_Me(t *testing.T) {
	me := middleware.Identity{ID: uuid.New(), Role: "client"}
	svc := &fakeService{}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/rewards/me", nil)
	r = r.WithContext(middleware.WithIdentity(r.Context(), me))
	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, me.ID, svc.requested)

	var body handlers.RewardAccountResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 3, body.ServiceCount)
	assert.False(t, body.FreeServiceAvailable)
}

func TestHandler_ByCustomerID(t *testing.T) {
	admin := middleware.Identity{ID: uuid.New(), Role: "admin"}
	target := uuid.New()

	tests := []struct {
		name string
		id   string
		err  error
		want int
	}{
		{name: "ok", id: target.String(), want: http.StatusOK},
		{name: "bad id", id: "abc", want: http.StatusBadRequest},
		{name: "not found", id: target.String(), err: rewards.ErrAccountNotFound, want: http.StatusNotFound},
		{name: "forbidden", id: target.String(), err: rewards.ErrAccessDenied, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/rewards/"+tt.id, nil)
			r = mux.SetURLVars(r, map[string]string{"customerId": tt.id})
			r = r.WithContext(middleware.WithIdentity(r.Context(), admin))
			w := httptest.NewRecorder()

			NewHandler(&fakeService{err: tt.err}, nopLogger{}).Handle(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
