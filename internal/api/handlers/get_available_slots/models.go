package get_available_slots

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	EstablishmentID string          `json:"establishmentId"`
	StaffID         string          `json:"staffId"`
	DurationMinutes int             `json:"durationMinutes"`
	StepMinutes     int             `json:"stepMinutes"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.UTC().Format(time.RFC3339),
			EndTime:   slot.EndTime.UTC().Format(time.RFC3339),
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		EstablishmentID: resp.EstablishmentID.String(),
		StaffID:         resp.StaffID.String(),
		DurationMinutes: resp.DurationMinutes,
		StepMinutes:     resp.StepMinutes,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
// serviceIds принимается списком через запятую или повторяющимся параметром
func ToUseCaseRequest(actorID, establishmentID uuid.UUID, staffIDStr, dateStr string, serviceIDs []string) (*getAvailableSlots.Request, error) {
	staffID, err := uuid.Parse(staffIDStr)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	var raw []string
	for _, v := range serviceIDs {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				raw = append(raw, part)
			}
		}
	}

	ids, err := handlers.ParseUUIDs(raw)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ActorID:         actorID,
		EstablishmentID: establishmentID,
		StaffID:         staffID,
		Date:            date,
		ServiceIDs:      ids,
	}, nil
}
