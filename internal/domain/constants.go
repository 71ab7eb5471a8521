package domain

// Default scheduling settings
const (
	DefaultOpenTime        = "09:00"
	DefaultCloseTime       = "20:00"
	DefaultSlotStepMinutes = 15
)

// Business validation constants
const (
	MinSlotStepMinutes = 5
	MaxSlotStepMinutes = 240 // 4 hours
	MaxNotesLength     = 500
)

// Pagination defaults
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, при которых запись не занимает время сотрудника
// Используется при поиске пересечений и в ограничении appointments_no_overlap
var InactiveStatuses = []AppointmentStatus{
	StatusCanceled,
	StatusNoShow,
}

// AllStatuses закрытый список статусов записи
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCanceled,
	StatusNoShow,
}
