package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgMissingToken = "требуется авторизация"
	msgInvalidToken = "недействительный токен"
	msgAdminOnly    = "доступно только администратору"
)

var (
	// ErrMissingToken возвращается, когда заголовок Authorization отсутствует
	ErrMissingToken = errors.New("auth: missing bearer token")

	// ErrInvalidToken возвращается, когда токен не прошел проверку
	ErrInvalidToken = errors.New("auth: invalid token")
)

// Claims полезная нагрузка токена
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Identity аутентифицированный пользователь
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// IsAdmin возвращает true для администратора
func (i Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}

// Actor возвращает вызывающего для сервисного слоя
func (i Identity) Actor() domain.Actor {
	return domain.Actor{CustomerID: i.ID, IsAdmin: i.IsAdmin()}
}

type identityKey struct{}

// WithIdentity кладет пользователя в контекст
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext достает пользователя из контекста
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

// Authenticator проверяет HS256 токены
type Authenticator struct {
	secret []byte
	logger Logger
}

// NewAuthenticator создает проверку токенов с общим секретом
func NewAuthenticator(secret string, logger Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), logger: logger}
}

// Parse проверяет токен и возвращает пользователя
func (a *Authenticator) Parse(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}

	return Identity{ID: id, Email: claims.Email, Role: claims.Role}, nil
}

// Optional пропускает запросы без токена, но отклоняет запросы с недействительным токеном
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.fromRequest(r)
		switch {
		case errors.Is(err, ErrMissingToken):
			next.ServeHTTP(w, r)
		case err != nil:
			a.logger.Warn("%s %s - invalid token: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
		default:
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		}
	})
}

// Required требует действительный токен
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := a.fromRequest(r)
		if err != nil {
			a.logger.Warn("%s %s - unauthorized: %v", r.Method, r.URL.Path, err)
			if errors.Is(err, ErrMissingToken) {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// Admin требует токен с ролью администратора
func (a *Authenticator) Admin(next http.Handler) http.Handler {
	return a.Required(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		if !identity.IsAdmin() {
			a.logger.Warn("%s %s - admin role required, user=%s", r.Method, r.URL.Path, identity.ID)
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (a *Authenticator) fromRequest(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return Identity{}, fmt.Errorf("%w: malformed authorization header", ErrInvalidToken)
	}

	return a.Parse(strings.TrimSpace(parts[1]))
}
