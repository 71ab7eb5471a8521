package update_appointment

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
)

type UpdateAppointmentUseCase interface {
	Execute(ctx context.Context, req *updateAppointment.Request) (*models.AppointmentResponse, error)
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
