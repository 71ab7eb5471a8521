package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	establishmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/establishment"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
)

// Validator превращает отношение пользователя к заведению в решения о правах
// и проверяет, что клиент, сотрудник и услуги существуют в заведении
type Validator struct {
	repo   EstablishmentRepository
	logger Logger
}

// NewValidator создает новый экземпляр валидатора доступа
func NewValidator(repo EstablishmentRepository, logger Logger) *Validator {
	return &Validator{
		repo:   repo,
		logger: logger,
	}
}

// ResolveAccess определяет, кем пользователь приходится заведению
// NotFound, если заведения нет; Forbidden, если пользователь не владелец и не сотрудник
// или его членство неактивно
func (v *Validator) ResolveAccess(ctx context.Context, establishmentID, userID uuid.UUID) (*domain.AccessResult, error) {
	access, err := v.repo.ResolveAccess(ctx, establishmentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, establishmentRepo.ErrEstablishmentNotFound):
			v.logger.Warn("ResolveAccess: establishment=%s not found", establishmentID)
			return nil, apperror.NotFound(domain.CodeEstablishmentNotFound, apperror.Params{
				"establishmentId": establishmentID.String(),
			})
		case errors.Is(err, establishmentRepo.ErrNotMember):
			v.logger.Warn("ResolveAccess: user=%s has no relation to establishment=%s", userID, establishmentID)
			return nil, apperror.Forbidden(domain.CodeEstablishmentAccessDenied, apperror.Params{
				"establishmentId": establishmentID.String(),
				"userId":          userID.String(),
			})
		}
		v.logger.Error("ResolveAccess: failed to resolve access for user=%s, establishment=%s: %v", userID, establishmentID, err)
		return nil, fmt.Errorf("%w: resolve access: %v", ErrInternal, err)
	}

	if !access.IsOwner && (access.Assignment == nil || !access.Assignment.IsActive) {
		v.logger.Warn("ResolveAccess: membership of user=%s in establishment=%s is inactive", userID, establishmentID)
		return nil, apperror.Forbidden(domain.CodeEstablishmentAccessDenied, apperror.Params{
			"establishmentId": establishmentID.String(),
			"userId":          userID.String(),
		})
	}

	return access, nil
}

// AssertActorCanActForTarget проверяет, может ли актор действовать от имени сотрудника
// Владелец и активные OWNER/RECEPTIONIST могут действовать за любого,
// активные BARBER/HAIRDRESSER только за себя. Неактивное членство всегда запрещено
func (v *Validator) AssertActorCanActForTarget(access *domain.AccessResult, actorID, targetStaffID uuid.UUID) error {
	if access.CanActForAnyone() {
		return nil
	}
	if access.IsRestricted() && actorID == targetStaffID {
		return nil
	}

	v.logger.Warn("AssertActorCanActForTarget: actor=%s cannot act for staff=%s", actorID, targetStaffID)
	return apperror.Forbidden(domain.CodeAppointmentAccessDenied, apperror.Params{
		"actorId": actorID.String(),
		"staffId": targetStaffID.String(),
	})
}

// ValidateCustomerExists проверяет, что клиент есть в заведении
func (v *Validator) ValidateCustomerExists(ctx context.Context, establishmentID, customerID uuid.UUID) error {
	exists, err := v.repo.CustomerExists(ctx, establishmentID, customerID)
	if err != nil {
		v.logger.Error("ValidateCustomerExists: failed to check customer=%s: %v", customerID, err)
		return fmt.Errorf("%w: check customer: %v", ErrInternal, err)
	}

	if !exists {
		v.logger.Warn("ValidateCustomerExists: customer=%s not found in establishment=%s", customerID, establishmentID)
		return apperror.NotFound(domain.CodeCustomerNotFound, apperror.Params{
			"customerId":      customerID.String(),
			"establishmentId": establishmentID.String(),
		})
	}

	return nil
}

// ValidateStaffExists проверяет, что сотрудник есть в заведении и активен
func (v *Validator) ValidateStaffExists(ctx context.Context, establishmentID, staffID uuid.UUID) (*domain.StaffMember, error) {
	member, err := v.repo.GetStaffMember(ctx, establishmentID, staffID)
	if err != nil && !errors.Is(err, establishmentRepo.ErrStaffMemberNotFound) {
		v.logger.Error("ValidateStaffExists: failed to get staff=%s: %v", staffID, err)
		return nil, fmt.Errorf("%w: get staff member: %v", ErrInternal, err)
	}

	if member == nil || !member.IsActive {
		v.logger.Warn("ValidateStaffExists: active staff=%s not found in establishment=%s", staffID, establishmentID)
		return nil, apperror.NotFound(domain.CodeStaffMemberNotFound, apperror.Params{
			"staffId":         staffID.String(),
			"establishmentId": establishmentID.String(),
		})
	}

	return member, nil
}

// ValidateServicesExist загружает услуги одним запросом и возвращает их в порядке запроса
// Первый отсутствующий id возвращается как NotFound
func (v *Validator) ValidateServicesExist(ctx context.Context, establishmentID uuid.UUID, serviceIDs []uuid.UUID) ([]domain.Service, error) {
	found, err := v.repo.GetServicesByIDs(ctx, establishmentID, serviceIDs)
	if err != nil {
		v.logger.Error("ValidateServicesExist: failed to get services for establishment=%s: %v", establishmentID, err)
		return nil, fmt.Errorf("%w: get services: %v", ErrInternal, err)
	}

	byID := make(map[uuid.UUID]domain.Service, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}

	ordered := make([]domain.Service, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		s, ok := byID[id]
		if !ok {
			v.logger.Warn("ValidateServicesExist: service=%s not found in establishment=%s", id, establishmentID)
			return nil, apperror.NotFound(domain.CodeServiceNotFound, apperror.Params{
				"serviceId":       id.String(),
				"establishmentId": establishmentID.String(),
			})
		}
		ordered = append(ordered, s)
	}

	return ordered, nil
}

// ValidateStaffAllowedServices проверяет, что сотрудник оказывает каждую из услуг
// Первый неразрешённый id возвращается как BadRequest
func (v *Validator) ValidateStaffAllowedServices(ctx context.Context, establishmentID, staffID uuid.UUID, serviceIDs []uuid.UUID) error {
	allowedIDs, err := v.repo.GetStaffServiceIDs(ctx, establishmentID, staffID)
	if err != nil {
		v.logger.Error("ValidateStaffAllowedServices: failed to get services of staff=%s: %v", staffID, err)
		return fmt.Errorf("%w: get staff services: %v", ErrInternal, err)
	}

	allowed := make(map[uuid.UUID]struct{}, len(allowedIDs))
	for _, id := range allowedIDs {
		allowed[id] = struct{}{}
	}

	for _, id := range serviceIDs {
		if _, ok := allowed[id]; !ok {
			v.logger.Warn("ValidateStaffAllowedServices: service=%s is not allowed for staff=%s", id, staffID)
			return apperror.BadRequest(domain.CodeServiceNotAllowedForStaff, apperror.Params{
				"serviceId": id.String(),
				"staffId":   staffID.String(),
			})
		}
	}

	return nil
}
