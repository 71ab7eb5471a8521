package update_settings

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/service/settings/models"
)

// UpdateSettingsRequest HTTP request model
type UpdateSettingsRequest struct {
	OpenTime        string `json:"openTime"`  // "09:00"
	CloseTime       string `json:"closeTime"` // "21:00"
	SlotStepMinutes int    `json:"slotStepMinutes"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(actorID, establishmentID uuid.UUID) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		ActorID:         actorID,
		EstablishmentID: establishmentID,
		OpenTime:        r.OpenTime,
		CloseTime:       r.CloseTime,
		SlotStepMinutes: r.SlotStepMinutes,
	}
}
