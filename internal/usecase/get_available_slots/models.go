package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на получение свободных слотов сотрудника
type Request struct {
	ActorID         uuid.UUID   // ID пользователя, выполняющего запрос
	EstablishmentID uuid.UUID   // ID заведения
	StaffID         uuid.UUID   // ID сотрудника
	Date            time.Time   // Дата (без времени, UTC)
	ServiceIDs      []uuid.UUID // Услуги будущей записи
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date            time.Time
	EstablishmentID uuid.UUID
	StaffID         uuid.UUID
	DurationMinutes int // Суммарная длительность услуг
	StepMinutes     int // Шаг сетки слотов
	Slots           []domain.AvailableSlot
}
