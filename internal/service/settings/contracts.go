package settings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	Get(ctx context.Context, establishmentID uuid.UUID) (*domain.EstablishmentSettings, error)
	Upsert(ctx context.Context, settings *domain.EstablishmentSettings) (*domain.EstablishmentSettings, error)
}

// AccessValidator интерфейс определения доступа к заведению
type AccessValidator interface {
	ResolveAccess(ctx context.Context, establishmentID, userID uuid.UUID) (*domain.AccessResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
