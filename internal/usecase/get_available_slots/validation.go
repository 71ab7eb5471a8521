package get_available_slots

import (
	"fmt"

	"github.com/google/uuid"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.EstablishmentID == uuid.Nil {
		return fmt.Errorf("%w: establishmentID is required", ErrInvalidInput)
	}

	if req.StaffID == uuid.Nil {
		return fmt.Errorf("%w: staffId is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one serviceId is required", ErrInvalidInput)
	}

	return nil
}
