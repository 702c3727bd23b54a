package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	observations []observation
}

func (o *recordingObserver) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	o.observations = append(o.observations, observation{method: method, route: route, status: status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	observer := &recordingObserver{}

	r := mux.NewRouter()
	r.Use(Metrics(observer))
	r.HandleFunc("/appointments/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodGet)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/appointments/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Len(t, observer.observations, 2)
	assert.Equal(t, observation{method: http.MethodGet, route: "/appointments/{id}", status: http.StatusNotFound}, observer.observations[0])
	assert.Equal(t, observation{method: http.MethodGet, route: "/health", status: http.StatusOK}, observer.observations[1])
}
