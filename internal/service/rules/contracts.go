package rules

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс поиска пересекающихся записей
type AppointmentRepository interface {
	FindConflicting(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
