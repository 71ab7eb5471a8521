package appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	GetAll(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	Count(ctx context.Context, filter domain.AppointmentFilter) (int, error)
	SoftDelete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error
}

// AccessValidator интерфейс проверки прав в заведении
type AccessValidator interface {
	ResolveAccess(ctx context.Context, establishmentID, userID uuid.UUID) (*domain.AccessResult, error)
	AssertActorCanActForTarget(access *domain.AccessResult, actorID, targetStaffID uuid.UUID) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
