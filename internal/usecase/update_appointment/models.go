package update_appointment

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на частичное обновление записи
// nil означает, что поле не меняется
type Request struct {
	ActorID         uuid.UUID
	EstablishmentID uuid.UUID
	AppointmentID   uuid.UUID

	StaffID    *uuid.UUID
	StartTime  *time.Time
	ServiceIDs []uuid.UUID // nil = не меняется, пустой срез = убрать все услуги
	Status     *string
	Notes      *string
	ClearNotes bool // "notes": null
}
