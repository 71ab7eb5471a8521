package update_appointment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
)

// UpdateAppointmentRequest HTTP request model
// Отсутствующее поле не меняется; "serviceIds": [] убирает все услуги, "notes": null стирает заметки
type UpdateAppointmentRequest struct {
	StaffID    *string        `json:"staffId,omitempty"`
	StartTime  *string        `json:"startTime,omitempty"` // RFC 3339
	ServiceIDs *[]string      `json:"serviceIds,omitempty"`
	Status     *string        `json:"status,omitempty"`
	Notes      NullableString `json:"notes"`
}

// NullableString отличает отсутствующее поле от явного null
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON вызывается только для присутствующего поля, в том числе для null
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateAppointmentRequest) ToUseCaseRequest(actorID, establishmentID, appointmentID uuid.UUID) (*updateAppointment.Request, error) {
	req := &updateAppointment.Request{
		ActorID:         actorID,
		EstablishmentID: establishmentID,
		AppointmentID:   appointmentID,
		Status:          r.Status,
		Notes:           r.Notes.Value,
		ClearNotes:      r.Notes.Set && r.Notes.Value == nil,
	}

	if r.StaffID != nil {
		staffID, err := uuid.Parse(*r.StaffID)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	if r.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}

	if r.ServiceIDs != nil {
		ids, err := handlers.ParseUUIDs(*r.ServiceIDs)
		if err != nil {
			return nil, err
		}
		req.ServiceIDs = ids
	}

	return req, nil
}
