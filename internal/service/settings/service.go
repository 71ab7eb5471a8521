package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/settings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service сервис настроек расписания заведения
type Service struct {
	settingsRepo SettingsRepository
	access       AccessValidator
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, access AccessValidator, logger Logger) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		access:       access,
		logger:       logger,
	}
}

// Get возвращает настройки заведения или значения по умолчанию
// Публичный метод - доступен всем
func (s *Service) Get(ctx context.Context, establishmentID uuid.UUID) (*models.SettingsResponse, error) {
	settings, isDefault, err := s.Effective(ctx, establishmentID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSettings(settings, isDefault), nil
}

// Effective возвращает сохранённые настройки, а если их нет, то значения по умолчанию
func (s *Service) Effective(ctx context.Context, establishmentID uuid.UUID) (*domain.EstablishmentSettings, bool, error) {
	settings, err := s.settingsRepo.Get(ctx, establishmentID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("Effective: using default settings for establishment=%s", establishmentID)
			return domain.DefaultSettings(establishmentID), true, nil
		}
		s.logger.Error("Effective: repository error for establishment=%s: %v", establishmentID, err)
		return nil, false, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return settings, false, nil
}

// Update заменяет настройки заведения
// Доступно только владельцу заведения
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: establishment=%s, actor=%s, open=%s, close=%s, step=%d",
		req.EstablishmentID, req.ActorID, req.OpenTime, req.CloseTime, req.SlotStepMinutes)

	// 1. Определяем отношение актора к заведению
	access, err := s.access.ResolveAccess(ctx, req.EstablishmentID, req.ActorID)
	if err != nil {
		return nil, err
	}

	// 2. Только владелец
	if !isOwner(access) {
		s.logger.Warn("Update: actor=%s is not an owner of establishment=%s", req.ActorID, req.EstablishmentID)
		return nil, apperror.Forbidden(domain.CodeSettingsAccessDenied, apperror.Params{
			"establishmentId": req.EstablishmentID.String(),
			"actorId":         req.ActorID.String(),
		})
	}

	// 3. Валидация значений
	settings, err := validateSettings(req)
	if err != nil {
		s.logger.Warn("Update: invalid settings for establishment=%s: %v", req.EstablishmentID, err)
		return nil, err
	}

	// 4. Сохраняем
	saved, err := s.settingsRepo.Upsert(ctx, settings)
	if err != nil {
		s.logger.Error("Update: repository error for establishment=%s: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully saved settings for establishment=%s", req.EstablishmentID)
	return models.FromDomainSettings(saved, false), nil
}

func isOwner(access *domain.AccessResult) bool {
	if access.IsOwner {
		return true
	}
	return access.Assignment != nil && access.Assignment.IsActive && access.Assignment.Role == domain.RoleOwner
}

// validateSettings проверяет формат времени, порядок open < close и шаг сетки
func validateSettings(req *models.UpdateSettingsRequest) (*domain.EstablishmentSettings, error) {
	invalid := func(field string, value any) error {
		return apperror.BadRequest(domain.CodeInvalidSettings, apperror.Params{"field": field, "value": value})
	}

	openTime, err := types.NewTimeStringFromString(req.OpenTime)
	if err != nil {
		return nil, invalid("openTime", req.OpenTime)
	}

	closeTime, err := types.NewTimeStringFromString(req.CloseTime)
	if err != nil {
		return nil, invalid("closeTime", req.CloseTime)
	}

	if !openTime.IsBefore(closeTime) {
		return nil, invalid("closeTime", req.CloseTime)
	}

	if req.SlotStepMinutes < domain.MinSlotStepMinutes || req.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return nil, invalid("slotStepMinutes", req.SlotStepMinutes)
	}

	return &domain.EstablishmentSettings{
		EstablishmentID: req.EstablishmentID,
		OpenTime:        openTime,
		CloseTime:       closeTime,
		SlotStepMinutes: req.SlotStepMinutes,
	}, nil
}
