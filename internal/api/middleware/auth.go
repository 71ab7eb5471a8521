package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	// UserIDHeader заголовок с ID пользователя, проставляемый шлюзом
	UserIDHeader = "X-User-ID"

	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidToken  = "некорректный токен авторизации"
)

type userIDKey struct{}

// Claims полезная нагрузка JWT
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Auth извлекает ID пользователя из Bearer-токена (если задан секрет) или заголовка X-User-ID
func Auth(jwtSecret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				userID uuid.UUID
				err    error
			)

			if token, ok := bearerToken(r); ok && jwtSecret != "" {
				userID, err = userIDFromToken(token, jwtSecret)
				if err != nil {
					handlers.RespondUnauthorized(w, msgInvalidToken)
					return
				}
			} else {
				raw := r.Header.Get(UserIDHeader)
				if raw == "" {
					handlers.RespondUnauthorized(w, msgMissingUserID)
					return
				}
				userID, err = uuid.Parse(raw)
				if err != nil {
					handlers.RespondUnauthorized(w, msgInvalidUserID)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID кладёт ID пользователя в контекст
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID достаёт ID пользователя из контекста
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return userID, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func userIDFromToken(tokenString, secret string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, errors.New("token is not valid")
	}
	return uuid.Parse(claims.UserID)
}
