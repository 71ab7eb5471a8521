package update_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/rules"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
)

// UseCase use case для частичного обновления записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	access          AccessValidator
	conflicts       ConflictChecker
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	access AccessValidator,
	conflicts ConflictChecker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		access:          access,
		conflicts:       conflicts,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case обновления записи
// Все проверки выполняются до единственной записи в хранилище
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.AppointmentResponse, error) {
	uc.logger.Info("UpdateAppointment: appointment=%s, establishment=%s, actor=%s",
		req.AppointmentID, req.EstablishmentID, req.ActorID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed: %v", err)
		return nil, err
	}

	patch := Patch{
		StaffID:    req.StaffID,
		StartTime:  req.StartTime,
		ServiceIDs: req.ServiceIDs,
		Notes:      req.Notes,
		ClearNotes: req.ClearNotes,
	}
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			uc.logger.Warn("UpdateAppointment: invalid status %q", *req.Status)
			return nil, err
		}
		patch.Status = &status
	}

	// 1. Определяем отношение актора к заведению
	access, err := uc.access.ResolveAccess(ctx, req.EstablishmentID, req.ActorID)
	if err != nil {
		return nil, err
	}

	// 2. Загружаем запись
	existing, err := uc.load(ctx, req.EstablishmentID, req.AppointmentID)
	if err != nil {
		return nil, err
	}

	// 3. Актор должен иметь право действовать за текущего сотрудника записи
	if err := uc.access.AssertActorCanActForTarget(access, req.ActorID, existing.StaffID); err != nil {
		return nil, err
	}

	// 4. Эффективное состояние
	res := Resolve(existing, patch)

	// 5. Смена сотрудника
	if res.StaffChanged {
		if err := uc.access.AssertActorCanActForTarget(access, req.ActorID, res.StaffID); err != nil {
			return nil, err
		}
		if _, err := uc.access.ValidateStaffExists(ctx, req.EstablishmentID, res.StaffID); err != nil {
			return nil, err
		}
	}

	// 6. Смена набора услуг
	var services []domain.Service
	if res.ServicesChanged {
		services, err = uc.access.ValidateServicesExist(ctx, req.EstablishmentID, res.ServiceIDs)
		if err != nil {
			return nil, err
		}
	}

	// 7. Эффективный сотрудник должен оказывать все эффективные услуги
	if res.StaffChanged || res.ServicesChanged {
		if err := uc.access.ValidateStaffAllowedServices(ctx, req.EstablishmentID, res.StaffID, res.ServiceIDs); err != nil {
			return nil, err
		}
	}

	// 8. Пересчёт времени окончания и сумм
	schedule := Reschedule(existing, res, services)

	// 9. start < end
	if err := rules.ValidateTimeRange(res.StartTime, schedule.EndTime); err != nil {
		uc.logger.Warn("UpdateAppointment: empty time range for appointment=%s", req.AppointmentID)
		return nil, err
	}

	var result *domain.Appointment

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 10. Пересечения проверяются только для записей, занимающих время сотрудника
		if isActiveStatus(res.Status) {
			if err := uc.conflicts.ValidateNoTimeConflict(txCtx, res.StaffID, res.StartTime, schedule.EndTime, &existing.ID); err != nil {
				return err
			}
		}

		// 11. Единственная запись в хранилище
		updated, err := uc.appointmentRepo.Update(txCtx, existing.ID, BuildPatch(res, schedule))
		if err != nil {
			return err
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, uc.mapWriteError(req, res, schedule.EndTime, err)
	}

	uc.logger.Info("UpdateAppointment: successfully updated appointment=%s (staff=%t, start=%t, services=%t, status=%t, notes=%t)",
		result.ID, res.StaffChanged, res.StartChanged, res.ServicesChanged, res.StatusChanged, res.NotesChanged)

	return models.FromDomainAppointment(result), nil
}

// load получает запись и проверяет, что она принадлежит заведению
func (uc *UseCase) load(ctx context.Context, establishmentID, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("UpdateAppointment: appointment=%s not found", id)
			return nil, notFound(establishmentID, id)
		}
		uc.logger.Error("UpdateAppointment: failed to get appointment=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if appt.EstablishmentID != establishmentID {
		uc.logger.Warn("UpdateAppointment: appointment=%s belongs to another establishment", id)
		return nil, notFound(establishmentID, id)
	}

	return appt, nil
}

// mapWriteError переводит ошибки транзакции в прикладные
func (uc *UseCase) mapWriteError(req *Request, res Resolution, end time.Time, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}

	switch {
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		uc.logger.Warn("UpdateAppointment: appointment=%s deleted concurrently", req.AppointmentID)
		return notFound(req.EstablishmentID, req.AppointmentID)
	case errors.Is(err, appointmentRepo.ErrOverlap):
		uc.logger.Warn("UpdateAppointment: overlap constraint rejected staff=%s, %s-%s",
			res.StaffID, res.StartTime.Format(time.RFC3339), end.Format(time.RFC3339))
		return apperror.Conflict(domain.CodeMemberAppointmentConflict, apperror.Params{
			"staffId":   res.StaffID.String(),
			"startTime": res.StartTime.UTC().Format(time.RFC3339),
			"endTime":   end.UTC().Format(time.RFC3339),
		})
	case appointmentRepo.IsSerializationFailure(err):
		uc.logger.Warn("UpdateAppointment: concurrent modification of appointment=%s", req.AppointmentID)
		return apperror.Conflict(domain.CodeConcurrentModification, apperror.Params{
			"appointmentId": req.AppointmentID.String(),
		})
	}

	uc.logger.Error("UpdateAppointment: failed to update appointment=%s: %v", req.AppointmentID, err)
	return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
}

func isActiveStatus(status domain.AppointmentStatus) bool {
	for _, s := range domain.InactiveStatuses {
		if status == s {
			return false
		}
	}
	return true
}

func notFound(establishmentID, id uuid.UUID) error {
	return apperror.NotFound(domain.CodeAppointmentNotFound, apperror.Params{
		"appointmentId":   id.String(),
		"establishmentId": establishmentID.String(),
	})
}
