package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "PENDING"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCanceled   AppointmentStatus = "CANCELED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

// IsValid returns true if the status belongs to the closed set of statuses
func (s AppointmentStatus) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Appointment represents a scheduled visit of a customer to a staff member
type Appointment struct {
	ID              uuid.UUID
	EstablishmentID uuid.UUID
	CustomerID      uuid.UUID
	StaffID         uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	TotalAmount     int64 // в минимальных денежных единицах
	TotalDuration   int   // в минутах
	Status          AppointmentStatus
	Notes           *string

	// Soft delete
	DeletedAt *time.Time
	DeletedBy *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined data for display
	CustomerName string
	StaffName    string

	Services []ServiceLine
}

// IsDeleted returns true if the appointment was soft-deleted
func (a *Appointment) IsDeleted() bool {
	return a.DeletedAt != nil
}

// IsActive returns true if the appointment occupies the staff member's time
func (a *Appointment) IsActive() bool {
	if a.IsDeleted() {
		return false
	}
	for _, s := range InactiveStatuses {
		if a.Status == s {
			return false
		}
	}
	return true
}

// ServiceIDs returns ids of the appointment's service lines in stored order
func (a *Appointment) ServiceIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(a.Services))
	for i, line := range a.Services {
		ids[i] = line.ServiceID
	}
	return ids
}

// ServiceLine is a priced, timed unit of work captured at booking time
type ServiceLine struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	ServiceID     uuid.UUID
	ServiceName   string
	Price         int64
	Duration      int     // в минутах
	Commission    float64 // доля, например 0.4
}

// NewServiceLine snapshots a catalogue service into a line
func NewServiceLine(s Service) ServiceLine {
	return ServiceLine{
		ServiceID:   s.ID,
		ServiceName: s.Name,
		Price:       s.Price,
		Duration:    s.Duration,
		Commission:  s.Commission,
	}
}

// AppointmentFilter фильтр для выборки записей
type AppointmentFilter struct {
	EstablishmentID uuid.UUID          // Обязательный параметр
	CustomerID      *uuid.UUID         // Фильтр по клиенту (опционально)
	StaffID         *uuid.UUID         // Фильтр по сотруднику (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	StartDate       *time.Time         // start_time >= StartDate (опционально)
	EndDate         *time.Time         // start_time <= EndDate (опционально)
	IncludeDeleted  bool               // Включать ли мягко удалённые записи
	Offset          uint64
	Limit           uint64 // 0 = без ограничения
}

// AppointmentPatch набор изменённых полей для записи в хранилище
// nil означает "поле не меняется"
type AppointmentPatch struct {
	StaffID       *uuid.UUID
	StartTime     *time.Time
	EndTime       *time.Time
	TotalAmount   *int64
	TotalDuration *int
	Status        *AppointmentStatus
	Notes         *string
	// ClearNotes стирает заметки, Notes при этом не используется
	ClearNotes bool
	// Services заменяет весь набор строк услуг, если не nil
	Services []ServiceLine
}

// IsEmpty returns true if the patch changes nothing
func (p *AppointmentPatch) IsEmpty() bool {
	return p.StaffID == nil &&
		p.StartTime == nil &&
		p.EndTime == nil &&
		p.TotalAmount == nil &&
		p.TotalDuration == nil &&
		p.Status == nil &&
		p.Notes == nil &&
		!p.ClearNotes &&
		p.Services == nil
}
