package create_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/pipeline"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// AccessValidator интерфейс проверок доступа и существования сущностей заведения
type AccessValidator interface {
	ResolveAccess(ctx context.Context, establishmentID, userID uuid.UUID) (*domain.AccessResult, error)
	AssertActorCanActForTarget(access *domain.AccessResult, actorID, targetStaffID uuid.UUID) error
	ValidateCustomerExists(ctx context.Context, establishmentID, customerID uuid.UUID) error
	ValidateStaffExists(ctx context.Context, establishmentID, staffID uuid.UUID) (*domain.StaffMember, error)
	ValidateServicesExist(ctx context.Context, establishmentID uuid.UUID, serviceIDs []uuid.UUID) ([]domain.Service, error)
}

// ConflictChecker проверка пересечений с записями сотрудника
type ConflictChecker interface {
	ValidateNoTimeConflict(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) error
}

// RulePipeline расширяемый набор правил над составом записи
type RulePipeline interface {
	Run(ctx context.Context, rc pipeline.Context) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
