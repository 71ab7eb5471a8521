package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
)

// Service сервис чтения и удаления записей
type Service struct {
	appointmentRepo AppointmentRepository
	access          AccessValidator
	pagination      Pagination
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	access AccessValidator,
	pagination Pagination,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		access:          access,
		pagination:      pagination,
		logger:          logger,
	}
}

// FindAll возвращает страницу записей заведения и их общее количество
// BARBER/HAIRDRESSER всегда видят только свои записи, даже если запрошен другой сотрудник
func (s *Service) FindAll(ctx context.Context, req *models.FindAllRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("FindAll: establishment=%s, actor=%s, staff=%v, customer=%v, status=%v, includeDeleted=%t",
		req.EstablishmentID, req.ActorID, req.StaffID, req.CustomerID, req.Status, req.IncludeDeleted)

	// 1. Определяем отношение актора к заведению
	access, err := s.access.ResolveAccess(ctx, req.EstablishmentID, req.ActorID)
	if err != nil {
		return nil, err
	}

	// 2. Вычисляем эффективный фильтр
	page, limit := s.pagination.Normalize(req.Page, req.Limit)
	filter := EffectiveFilter(access, req.ActorID, req)
	filter.Offset = Offset(page, limit)
	filter.Limit = uint64(limit)

	// 3. Страница и количество читаются параллельно по одному фильтру
	var (
		items []*domain.Appointment
		total int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.appointmentRepo.GetAll(gCtx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.appointmentRepo.Count(gCtx, filter)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("FindAll: repository error for establishment=%s: %v", req.EstablishmentID, err)
		return nil, fmt.Errorf("%w: FindAll - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("FindAll: fetched %d of %d appointments for establishment=%s", len(items), total, req.EstablishmentID)
	return models.FromDomainAppointmentList(items, total, page, limit), nil
}

// GetByID получает запись заведения с проверкой прав на её сотрудника
func (s *Service) GetByID(ctx context.Context, establishmentID, id, actorID uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment=%s in establishment=%s for actor=%s", id, establishmentID, actorID)

	access, err := s.access.ResolveAccess(ctx, establishmentID, actorID)
	if err != nil {
		return nil, err
	}

	appt, err := s.load(ctx, establishmentID, id)
	if err != nil {
		return nil, err
	}

	if err := s.access.AssertActorCanActForTarget(access, actorID, appt.StaffID); err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// Delete мягко удаляет запись: ставит отметку времени и автора удаления
func (s *Service) Delete(ctx context.Context, establishmentID, id, actorID uuid.UUID) error {
	s.logger.Info("Delete: deleting appointment=%s in establishment=%s by actor=%s", id, establishmentID, actorID)

	// 1. Определяем отношение актора к заведению
	access, err := s.access.ResolveAccess(ctx, establishmentID, actorID)
	if err != nil {
		return err
	}

	// 2. Загружаем запись
	appt, err := s.load(ctx, establishmentID, id)
	if err != nil {
		return err
	}

	// 3. Актор должен иметь право действовать за текущего сотрудника записи
	if err := s.access.AssertActorCanActForTarget(access, actorID, appt.StaffID); err != nil {
		return err
	}

	// 4. Мягкое удаление
	if err := s.appointmentRepo.SoftDelete(ctx, id, actorID); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment=%s disappeared before deletion", id)
			return notFound(establishmentID, id)
		}
		s.logger.Error("Delete: repository error for appointment=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted appointment=%s", id)
	return nil
}

// EffectiveFilter строит фильтр хранилища из запроса с учётом роли актора
// Ограниченные роли получают StaffID = actorID независимо от запрошенного
func EffectiveFilter(access *domain.AccessResult, actorID uuid.UUID, req *models.FindAllRequest) domain.AppointmentFilter {
	filter := domain.AppointmentFilter{
		EstablishmentID: req.EstablishmentID,
		CustomerID:      req.CustomerID,
		StaffID:         req.StaffID,
		Status:          req.Status,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IncludeDeleted:  req.IncludeDeleted,
	}

	if !access.CanActForAnyone() {
		own := actorID
		filter.StaffID = &own
	}

	return filter
}

// Вспомогательные методы

// load получает запись и проверяет, что она принадлежит заведению
func (s *Service) load(ctx context.Context, establishmentID, id uuid.UUID) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("load: appointment=%s not found", id)
			return nil, notFound(establishmentID, id)
		}
		s.logger.Error("load: repository error for appointment=%s: %v", id, err)
		return nil, fmt.Errorf("%w: load - repository error: %v", ErrInternal, err)
	}

	if appt.EstablishmentID != establishmentID {
		s.logger.Warn("load: appointment=%s belongs to another establishment", id)
		return nil, notFound(establishmentID, id)
	}

	return appt, nil
}

func notFound(establishmentID, id uuid.UUID) error {
	return apperror.NotFound(domain.CodeAppointmentNotFound, apperror.Params{
		"appointmentId":   id.String(),
		"establishmentId": establishmentID.String(),
	})
}
