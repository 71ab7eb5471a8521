package create_appointment

import (
	"time"

	"github.com/google/uuid"
)

// Request модель запроса на создание записи
type Request struct {
	ActorID         uuid.UUID   // ID пользователя, выполняющего запрос
	EstablishmentID uuid.UUID   // ID заведения
	CustomerID      uuid.UUID   // ID клиента
	StaffID         uuid.UUID   // ID сотрудника (совпадает с ID пользователя)
	StartTime       time.Time   // Время начала
	ServiceIDs      []uuid.UUID // Услуги в порядке оказания
	Notes           *string     // Заметки (опционально)
}
