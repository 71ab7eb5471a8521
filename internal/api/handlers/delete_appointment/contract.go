package delete_appointment

import (
	"context"

	"github.com/google/uuid"
)

type AppointmentService interface {
	Delete(ctx context.Context, establishmentID, id, actorID uuid.UUID) error
}

// OperationMetrics счётчик бизнес-операций
type OperationMetrics interface {
	ObserveOperation(operation string, err error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
