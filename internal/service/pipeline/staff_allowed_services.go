package pipeline

import (
	"context"

	"github.com/google/uuid"
)

// StaffServicesValidator проверка разрешённых сотруднику услуг
type StaffServicesValidator interface {
	ValidateStaffAllowedServices(ctx context.Context, establishmentID, staffID uuid.UUID, serviceIDs []uuid.UUID) error
}

// StaffAllowedServicesRule требует, чтобы каждая услуга входила в набор услуг сотрудника
type StaffAllowedServicesRule struct {
	validator StaffServicesValidator
}

// NewStaffAllowedServicesRule создает встроенное правило разрешённых услуг
func NewStaffAllowedServicesRule(validator StaffServicesValidator) *StaffAllowedServicesRule {
	return &StaffAllowedServicesRule{validator: validator}
}

func (r *StaffAllowedServicesRule) Name() string {
	return "staff_allowed_services"
}

func (r *StaffAllowedServicesRule) Validate(ctx context.Context, rc Context) error {
	return r.validator.ValidateStaffAllowedServices(ctx, rc.EstablishmentID, rc.StaffID, rc.ServiceIDs)
}
