package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	var ok payload
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana"}`))
	require.NoError(t, DecodeJSON(r, &ok))
	assert.Equal(t, "Ana", ok.Name)

	var unknown payload
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":"Ana"}`))
	assert.Error(t, DecodeJSON(r, &unknown))

	var trailing payload
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana"}{"name":"Bia"}`))
	assert.Error(t, DecodeJSON(r, &trailing))
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("wrapped: %w", domain.ErrValidation), want: http.StatusBadRequest},
		{err: fmt.Errorf("wrapped: %w", domain.ErrNotFound), want: http.StatusNotFound},
		{err: fmt.Errorf("wrapped: %w", domain.ErrForbidden), want: http.StatusForbidden},
		{err: fmt.Errorf("wrapped: %w", domain.ErrSlotConflict), want: http.StatusConflict},
		{err: fmt.Errorf("wrapped: %w", domain.ErrRewardUpdate), want: http.StatusInternalServerError},
		{err: fmt.Errorf("wrapped: %w", domain.ErrUnavailable), want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := StatusFromError(tt.err)
			assert.Equal(t, tt.want, status)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestRespondDomainError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondDomainError(w, fmt.Errorf("x: %w", domain.ErrValidation), "имя клиента обязательно")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "имя клиента обязательно", body.Message)

	w = httptest.NewRecorder()
	RespondDomainError(w, fmt.Errorf("x: %w", domain.ErrRewardUpdate), "ignored")
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgRewardRetry, body.Message)
}
