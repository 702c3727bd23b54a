package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, subject, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		Email: "ana@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func identityEcho(t *testing.T, seen *Identity, present *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen, *present = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticator_Parse(t *testing.T) {
	auth := NewAuthenticator(testSecret, nopLogger{})
	userID := uuid.New()

	identity, err := auth.Parse(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), userID.String(), "client", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, userID, identity.ID)
	assert.Equal(t, "ana@example.com", identity.Email)
	assert.False(t, identity.IsAdmin())

	_, err = auth.Parse(signToken(t, jwt.SigningMethodHS256, []byte("other"), userID.String(), "client", time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.Parse(signToken(t, jwt.SigningMethodHS512, []byte(testSecret), userID.String(), "client", time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.Parse(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), userID.String(), "client", -time.Minute))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.Parse(signToken(t, jwt.SigningMethodHS256, []byte(testSecret), "42", "client", time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticator_Optional(t *testing.T) {
	auth := NewAuthenticator(testSecret, nopLogger{})
	userID := uuid.New()

	var (
		seen    Identity
		present bool
	)
	h := auth.Optional(identityEcho(t, &seen, &present))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, present)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(testSecret), userID.String(), "client", time.Hour))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, present)
	assert.Equal(t, userID, seen.ID)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticator_RequiredAndAdmin(t *testing.T) {
	auth := NewAuthenticator(testSecret, nopLogger{})
	var (
		seen    Identity
		present bool
	)

	w := httptest.NewRecorder()
	auth.Required(identityEcho(t, &seen, &present)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	clientToken := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), uuid.NewString(), "client", time.Hour)
	adminToken := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), uuid.NewString(), "admin", time.Hour)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+clientToken)
	w = httptest.NewRecorder()
	auth.Admin(identityEcho(t, &seen, &present)).ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	auth.Admin(identityEcho(t, &seen, &present)).ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, seen.Actor().IsAdmin)
}
