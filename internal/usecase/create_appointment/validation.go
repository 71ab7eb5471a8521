package create_appointment

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EstablishmentID == uuid.Nil {
		return fmt.Errorf("%w: establishmentID is required", ErrInvalidInput)
	}

	if req.CustomerID == uuid.Nil {
		return fmt.Errorf("%w: customerID is required", ErrInvalidInput)
	}

	if req.StaffID == uuid.Nil {
		return fmt.Errorf("%w: staffID is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	for _, id := range req.ServiceIDs {
		if id == uuid.Nil {
			return fmt.Errorf("%w: serviceIds must not contain empty ids", ErrInvalidInput)
		}
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
