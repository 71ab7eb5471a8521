package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с настройками расписания заведения
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки заведения
func (r *Repository) Get(ctx context.Context, establishmentID uuid.UUID) (*domain.EstablishmentSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"establishment_id",
		"open_time",
		"close_time",
		"slot_step_minutes",
		"created_at",
		"updated_at",
	).
		From("establishment_settings").
		Where(squirrel.Eq{"establishment_id": establishmentID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.EstablishmentSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.EstablishmentID,
		&settings.OpenTime,
		&settings.CloseTime,
		&settings.SlotStepMinutes,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// Upsert создает или полностью заменяет настройки заведения
func (r *Repository) Upsert(ctx context.Context, settings *domain.EstablishmentSettings) (*domain.EstablishmentSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("establishment_settings").
		Columns(
			"establishment_id",
			"open_time",
			"close_time",
			"slot_step_minutes",
		).
		Values(
			settings.EstablishmentID,
			settings.OpenTime.String(),
			settings.CloseTime.String(),
			settings.SlotStepMinutes,
		).
		Suffix(`ON CONFLICT (establishment_id) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			slot_step_minutes = EXCLUDED.slot_step_minutes,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return settings, nil
}
