package create_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	CustomerID string   `json:"customerId"`
	StaffID    string   `json:"staffId"`
	StartTime  string   `json:"startTime"` // RFC 3339
	ServiceIDs []string `json:"serviceIds"`
	Notes      *string  `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(actorID, establishmentID uuid.UUID) (*createAppointment.Request, error) {
	customerID, err := uuid.Parse(r.CustomerID)
	if err != nil {
		return nil, err
	}

	staffID, err := uuid.Parse(r.StaffID)
	if err != nil {
		return nil, err
	}

	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	serviceIDs, err := handlers.ParseUUIDs(r.ServiceIDs)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		ActorID:         actorID,
		EstablishmentID: establishmentID,
		CustomerID:      customerID,
		StaffID:         staffID,
		StartTime:       startTime,
		ServiceIDs:      serviceIDs,
		Notes:           r.Notes,
	}, nil
}
