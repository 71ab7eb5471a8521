package middleware

import (
	"context"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RateCounter счётчик запросов в фиксированном окне
type RateCounter interface {
	// Incr увеличивает счётчик ключа и возвращает значение в текущем окне
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
