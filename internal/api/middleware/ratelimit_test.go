package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (c *memCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	if c.counts == nil {
		c.counts = make(map[string]int64)
	}
	c.counts[key]++
	return c.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(addr string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", nil)
	r.RemoteAddr = addr
	return r
}

func TestRateLimiter_Limit(t *testing.T) {
	counter := &memCounter{}
	h := NewRateLimiter(counter, 2, time.Minute, "test", true, nopLogger{}).Middleware(okHandler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, requestFrom("10.0.0.1:5000"))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, requestFrom("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, requestFrom("10.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), counter.counts["test:10.0.0.2"])
}

func TestRateLimiter_CounterFailure(t *testing.T) {
	counter := &memCounter{err: errors.New("redis: connection refused")}

	w := httptest.NewRecorder()
	NewRateLimiter(counter, 2, time.Minute, "test", true, nopLogger{}).Middleware(okHandler()).ServeHTTP(w, requestFrom("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	NewRateLimiter(counter, 2, time.Minute, "test", false, nopLogger{}).Middleware(okHandler()).ServeHTTP(w, requestFrom("10.0.0.1:5000"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestClientKey(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.168.1.10"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   []*net.IPNet
		want      string
	}{
		{name: "direct client", remote: "10.0.0.1:5000", want: "10.0.0.1"},
		{name: "forwarded header ignored without trusted proxies", remote: "198.51.100.4:5000", forwarded: "203.0.113.7", want: "198.51.100.4"},
		{name: "forwarded header ignored from untrusted peer", remote: "198.51.100.4:5000", forwarded: "203.0.113.7", trusted: proxies, want: "198.51.100.4"},
		{name: "client behind trusted proxy", remote: "10.0.0.1:5000", forwarded: "203.0.113.7", trusted: proxies, want: "203.0.113.7"},
		{name: "spoofed left entries are skipped", remote: "10.0.0.1:5000", forwarded: "1.2.3.4, 203.0.113.7, 192.168.1.10", trusted: proxies, want: "203.0.113.7"},
		{name: "trusted proxy without header", remote: "10.0.0.1:5000", trusted: proxies, want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := requestFrom(tt.remote)
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientKey(r, tt.trusted))
		})
	}
}

func TestRateLimiter_RotatingForwardedForDoesNotBypassLimit(t *testing.T) {
	counter := &memCounter{}
	h := NewRateLimiter(counter, 1, time.Minute, "test", true, nopLogger{}).Middleware(okHandler())

	first := requestFrom("198.51.100.4:5000")
	first.Header.Set("X-Forwarded-For", "203.0.113.1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	second := requestFrom("198.51.100.4:5000")
	second.Header.Set("X-Forwarded-For", "203.0.113.2")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, second)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestParseTrustedProxies(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.10 ", "", "::1"})
	require.NoError(t, err)
	require.Len(t, proxies, 3)
	assert.True(t, proxies[1].Contains(net.ParseIP("192.168.1.10")))
	assert.False(t, proxies[1].Contains(net.ParseIP("192.168.1.11")))
	assert.True(t, proxies[2].Contains(net.ParseIP("::1")))

	_, err = ParseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}
