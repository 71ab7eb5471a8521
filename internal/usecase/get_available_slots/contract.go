package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/pipeline"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// FindConflicting возвращает живые записи сотрудника, пересекающиеся с окном
	FindConflicting(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error)
}

// AccessValidator интерфейс проверок доступа и существования сущностей заведения
type AccessValidator interface {
	ResolveAccess(ctx context.Context, establishmentID, userID uuid.UUID) (*domain.AccessResult, error)
	ValidateStaffExists(ctx context.Context, establishmentID, staffID uuid.UUID) (*domain.StaffMember, error)
	ValidateServicesExist(ctx context.Context, establishmentID uuid.UUID, serviceIDs []uuid.UUID) ([]domain.Service, error)
}

// RulePipeline расширяемый набор правил над составом записи
type RulePipeline interface {
	Run(ctx context.Context, rc pipeline.Context) error
}

// SettingsProvider источник настроек расписания заведения
type SettingsProvider interface {
	// Effective возвращает сохранённые настройки или значения по умолчанию
	Effective(ctx context.Context, establishmentID uuid.UUID) (*domain.EstablishmentSettings, bool, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
