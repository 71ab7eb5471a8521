package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// EstablishmentRepository интерфейс репозитория заведений
type EstablishmentRepository interface {
	ResolveAccess(ctx context.Context, establishmentID, userID uuid.UUID) (*domain.AccessResult, error)
	CustomerExists(ctx context.Context, establishmentID, customerID uuid.UUID) (bool, error)
	GetStaffMember(ctx context.Context, establishmentID, staffID uuid.UUID) (*domain.StaffMember, error)
	GetServicesByIDs(ctx context.Context, establishmentID uuid.UUID, ids []uuid.UUID) ([]domain.Service, error)
	GetStaffServiceIDs(ctx context.Context, establishmentID, staffID uuid.UUID) ([]uuid.UUID, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
