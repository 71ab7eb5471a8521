package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/pipeline"
	"github.com/m04kA/SMC-AppointmentService/internal/service/rules"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
)

// UseCase use case для получения свободных слотов сотрудника
type UseCase struct {
	appointmentRepo AppointmentRepository
	access          AccessValidator
	pipeline        RulePipeline
	settings        SettingsProvider
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	access AccessValidator,
	pipeline RulePipeline,
	settings SettingsProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		access:          access,
		pipeline:        pipeline,
		settings:        settings,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: establishment=%s, staff=%s, date=%s, services=%d",
		req.EstablishmentID, req.StaffID, req.Date.Format(domain.DateFormat), len(req.ServiceIDs))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Доступ к заведению
	if _, err := uc.access.ResolveAccess(ctx, req.EstablishmentID, req.ActorID); err != nil {
		return nil, err
	}

	// 3. Сотрудник и услуги
	if _, err := uc.access.ValidateStaffExists(ctx, req.EstablishmentID, req.StaffID); err != nil {
		return nil, err
	}

	services, err := uc.access.ValidateServicesExist(ctx, req.EstablishmentID, req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	if err := uc.pipeline.Run(ctx, pipeline.Context{
		EstablishmentID: req.EstablishmentID,
		StaffID:         req.StaffID,
		ServiceIDs:      req.ServiceIDs,
	}); err != nil {
		return nil, err
	}

	// 4. Длительность будущей записи
	day := dayStart(req.Date)
	totals := rules.CalculateTotalsAndEndTime(day, rules.LinesFromServices(services))
	if totals.TotalDuration <= 0 {
		return nil, apperror.BadRequest(domain.CodeInvalidTimeRange, apperror.Params{
			"durationMinutes": totals.TotalDuration,
		})
	}

	// 5. Настройки расписания
	settings, isDefault, err := uc.settings.Effective(ctx, req.EstablishmentID)
	if err != nil {
		return nil, err
	}
	if isDefault {
		uc.logger.Info("GetAvailableSlots: using default settings for establishment=%s", req.EstablishmentID)
	}

	openAt, err := settings.OpenTime.OnDate(day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid open time %q: %v", settings.OpenTime, err)
		return nil, fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
	}
	closeAt, err := settings.CloseTime.OnDate(day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid close time %q: %v", settings.CloseTime, err)
		return nil, fmt.Errorf("%w: invalid close time: %v", ErrInternal, err)
	}

	// 6. Живые записи сотрудника в рабочем окне дня
	appointments, err := uc.appointmentRepo.FindConflicting(ctx, req.StaffID, openAt, closeAt, nil)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments of staff=%s: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Свободные слоты
	slots := generateSlots(
		openAt,
		closeAt,
		time.Duration(settings.SlotStepMinutes)*time.Minute,
		time.Duration(totals.TotalDuration)*time.Minute,
		busyIntervals(appointments),
		uc.timeProvider.Now(),
	)

	uc.logger.Info("GetAvailableSlots: generated %d slots for staff=%s, date=%s",
		len(slots), req.StaffID, day.Format(domain.DateFormat))

	return &Response{
		Date:            day,
		EstablishmentID: req.EstablishmentID,
		StaffID:         req.StaffID,
		DurationMinutes: totals.TotalDuration,
		StepMinutes:     settings.SlotStepMinutes,
		Slots:           slots,
	}, nil
}
