package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgRateLimited        = "слишком много запросов, попробуйте позже"
	msgRateLimiterFailure = "сервис временно недоступен"
)

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisCounter счётчик фиксированного окна в Redis
type RedisCounter struct {
	rdb redis.Scripter
}

// NewRedisCounter создает счётчик поверх клиента Redis
func NewRedisCounter(rdb redis.Scripter) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

// Incr атомарно увеличивает счётчик и ставит TTL на первое попадание в окно
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, c.rdb, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}

	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected redis script result type %T", res)
	}
}

// RateLimiter ограничивает число запросов клиента в окне
type RateLimiter struct {
	counter  RateCounter
	limit    int
	window   time.Duration
	prefix   string
	failOpen bool
	logger   Logger
}

// NewRateLimiter создает ограничитель; при failOpen ошибки счётчика пропускают запрос
func NewRateLimiter(counter RateCounter, limit int, window time.Duration, prefix string, failOpen bool, logger Logger) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix == "" {
		prefix = "rl"
	}
	return &RateLimiter{
		counter:  counter,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		failOpen: failOpen,
		logger:   logger,
	}
}

// Middleware возвращает mux middleware
func (rl *RateLimiter) Middleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rl.prefix + ":" + clientKey(r)

			count, err := rl.counter.Incr(r.Context(), key, rl.window)
			if err != nil {
				rl.logger.Warn("RateLimiter: counter error for key=%s: %v", key, err)
				if rl.failOpen {
					next.ServeHTTP(w, r)
					return
				}
				handlers.RespondError(w, http.StatusServiceUnavailable, msgRateLimiterFailure)
				return
			}

			if count > int64(rl.limit) {
				rl.logger.Warn("RateLimiter: limit exceeded for key=%s (%d/%d)", key, count, rl.limit)
				handlers.RespondTooManyRequests(w, msgRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey пользователь, если он известен, иначе IP клиента
func clientKey(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + userID.String()
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return "ip:" + strings.TrimSpace(ip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
