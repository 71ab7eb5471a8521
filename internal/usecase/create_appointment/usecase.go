package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/pipeline"
	"github.com/m04kA/SMC-AppointmentService/internal/service/rules"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	access          AccessValidator
	conflicts       ConflictChecker
	pipeline        RulePipeline
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	access AccessValidator,
	conflicts ConflictChecker,
	pipeline RulePipeline,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		access:          access,
		conflicts:       conflicts,
		pipeline:        pipeline,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Проверка пересечений и запись выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.AppointmentResponse, error) {
	uc.logger.Info("CreateAppointment: establishment=%s, actor=%s, customer=%s, staff=%s, start=%s, services=%d",
		req.EstablishmentID, req.ActorID, req.CustomerID, req.StaffID, req.StartTime.Format(time.RFC3339), len(req.ServiceIDs))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 1. Определяем отношение актора к заведению
	access, err := uc.access.ResolveAccess(ctx, req.EstablishmentID, req.ActorID)
	if err != nil {
		return nil, err
	}

	// 2. Актор должен иметь право действовать за выбранного сотрудника
	if err := uc.access.AssertActorCanActForTarget(access, req.ActorID, req.StaffID); err != nil {
		return nil, err
	}

	// 3. Клиент
	if err := uc.access.ValidateCustomerExists(ctx, req.EstablishmentID, req.CustomerID); err != nil {
		return nil, err
	}

	// 4. Сотрудник (только активный)
	if _, err := uc.access.ValidateStaffExists(ctx, req.EstablishmentID, req.StaffID); err != nil {
		return nil, err
	}

	// 5. Услуги в порядке запроса
	services, err := uc.access.ValidateServicesExist(ctx, req.EstablishmentID, req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	// 6. Набор правил над составом записи
	if err := uc.pipeline.Run(ctx, pipeline.Context{
		EstablishmentID: req.EstablishmentID,
		StaffID:         req.StaffID,
		ServiceIDs:      req.ServiceIDs,
	}); err != nil {
		return nil, err
	}

	// 7. Суммы и время окончания
	lines := rules.LinesFromServices(services)
	totals := rules.CalculateTotalsAndEndTime(req.StartTime, lines)

	var result *domain.Appointment

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8. Пересечения с живыми записями сотрудника
		if err := uc.conflicts.ValidateNoTimeConflict(txCtx, req.StaffID, req.StartTime, totals.EndTime, nil); err != nil {
			return err
		}

		// 9. start < end
		if err := rules.ValidateTimeRange(req.StartTime, totals.EndTime); err != nil {
			uc.logger.Warn("CreateAppointment: empty time range for staff=%s at %s", req.StaffID, req.StartTime.Format(time.RFC3339))
			return err
		}

		// 10. Единственная запись в хранилище
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			EstablishmentID: req.EstablishmentID,
			CustomerID:      req.CustomerID,
			StaffID:         req.StaffID,
			StartTime:       req.StartTime,
			EndTime:         totals.EndTime,
			TotalAmount:     totals.TotalAmount,
			TotalDuration:   totals.TotalDuration,
			Status:          domain.StatusPending,
			Notes:           req.Notes,
			Services:        lines,
		})
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.mapWriteError(req, totals.EndTime, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment=%s for staff=%s, %s-%s",
		result.ID, result.StaffID, result.StartTime.Format(time.RFC3339), result.EndTime.Format(time.RFC3339))

	return models.FromDomainAppointment(result), nil
}

// mapWriteError переводит ошибки транзакции в прикладные
// Прикладные ошибки возвращаются без изменений
func (uc *UseCase) mapWriteError(req *Request, end time.Time, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}

	switch {
	case errors.Is(err, appointmentRepo.ErrOverlap):
		uc.logger.Warn("CreateAppointment: overlap constraint rejected staff=%s, %s-%s",
			req.StaffID, req.StartTime.Format(time.RFC3339), end.Format(time.RFC3339))
		return apperror.Conflict(domain.CodeMemberAppointmentConflict, apperror.Params{
			"staffId":   req.StaffID.String(),
			"startTime": req.StartTime.UTC().Format(time.RFC3339),
			"endTime":   end.UTC().Format(time.RFC3339),
		})
	case appointmentRepo.IsSerializationFailure(err):
		uc.logger.Warn("CreateAppointment: concurrent modification for staff=%s", req.StaffID)
		return apperror.Conflict(domain.CodeConcurrentModification, apperror.Params{
			"staffId": req.StaffID.String(),
		})
	}

	uc.logger.Error("CreateAppointment: failed to create appointment for staff=%s: %v", req.StaffID, err)
	return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
}
