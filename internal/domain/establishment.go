package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Establishment is the tenant owning staff, customers, services and appointments
type Establishment struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
}

// Customer of an establishment
type Customer struct {
	ID              uuid.UUID
	EstablishmentID uuid.UUID
	Name            string
}

// StaffMember is an establishment-scoped actor; ID is the member's user id
type StaffMember struct {
	ID              uuid.UUID
	AssignmentID    uuid.UUID
	EstablishmentID uuid.UUID
	Name            string
	Role            Role
	IsActive        bool
}

// Service is a catalogue entry of an establishment
type Service struct {
	ID              uuid.UUID
	EstablishmentID uuid.UUID
	Name            string
	Price           int64
	Duration        int // в минутах
	Commission      float64
	IsActive        bool
}

// EstablishmentSettings represents scheduling settings of an establishment
type EstablishmentSettings struct {
	EstablishmentID uuid.UUID
	OpenTime        types.TimeString
	CloseTime       types.TimeString
	SlotStepMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DefaultSettings returns settings used when an establishment has none stored
func DefaultSettings(establishmentID uuid.UUID) *EstablishmentSettings {
	return &EstablishmentSettings{
		EstablishmentID: establishmentID,
		OpenTime:        types.MustTimeString(DefaultOpenTime),
		CloseTime:       types.MustTimeString(DefaultCloseTime),
		SlotStepMinutes: DefaultSlotStepMinutes,
	}
}
