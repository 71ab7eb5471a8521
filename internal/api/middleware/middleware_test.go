package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeCounter struct {
	incrFn func(ctx context.Context, key string, window time.Duration) (int64, error)
}

func (f *fakeCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if f.incrFn == nil {
		panic("Incr not configured")
	}
	return f.incrFn(ctx, key, window)
}

func echoUserID(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_, _ = w.Write([]byte(userID.String()))
}

func signToken(t *testing.T, secret string, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuth_Header(t *testing.T) {
	h := Auth("")(http.HandlerFunc(echoUserID))
	userID := uuid.New()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", userID.String(), http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "not-a-uuid", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			}
		})
	}
}

func TestAuth_Bearer(t *testing.T) {
	const secret = "test-secret"
	h := Auth(secret)(http.HandlerFunc(echoUserID))
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, secret, userID.String()))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID.String(), rec.Body.String())
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "other", userID.String()))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("header fallback without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(UserIDHeader, userID.String())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "test")

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/appointments/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/"+uuid.NewString(), nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/appointments/{id}", "404")))
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	newRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		return req
	}

	t.Run("allows under limit and rejects over", func(t *testing.T) {
		counts := map[string]int64{}
		counter := &fakeCounter{incrFn: func(_ context.Context, key string, _ time.Duration) (int64, error) {
			counts[key]++
			return counts[key], nil
		}}
		h := NewRateLimiter(counter, 2, time.Minute, "test", false, nopLogger{}).Middleware()(ok)

		statuses := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, newRequest())
			statuses = append(statuses, rec.Code)
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
		assert.Equal(t, int64(3), counts["test:ip:10.0.0.1"])
	})

	t.Run("keys by user when authenticated", func(t *testing.T) {
		userID := uuid.New()
		var key string
		counter := &fakeCounter{incrFn: func(_ context.Context, k string, _ time.Duration) (int64, error) {
			key = k
			return 1, nil
		}}
		h := NewRateLimiter(counter, 10, time.Minute, "", false, nopLogger{}).Middleware()(ok)

		req := newRequest()
		req = req.WithContext(WithUserID(req.Context(), userID))
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "rl:user:"+userID.String(), key)
	})

	t.Run("counter failure", func(t *testing.T) {
		counter := &fakeCounter{incrFn: func(context.Context, string, time.Duration) (int64, error) {
			return 0, errors.New("redis down")
		}}

		rec := httptest.NewRecorder()
		NewRateLimiter(counter, 1, time.Minute, "", true, nopLogger{}).Middleware()(ok).ServeHTTP(rec, newRequest())
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		NewRateLimiter(counter, 1, time.Minute, "", false, nopLogger{}).Middleware()(ok).ServeHTTP(rec, newRequest())
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
