package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// UpdateSettingsRequest запрос на замену настроек расписания заведения
type UpdateSettingsRequest struct {
	ActorID         uuid.UUID
	EstablishmentID uuid.UUID
	OpenTime        string // HH:MM
	CloseTime       string // HH:MM
	SlotStepMinutes int
}

// Response модели

// SettingsResponse ответ с настройками расписания
type SettingsResponse struct {
	EstablishmentID string `json:"establishmentId"`
	OpenTime        string `json:"openTime"`
	CloseTime       string `json:"closeTime"`
	SlotStepMinutes int    `json:"slotStepMinutes"`
	IsDefault       bool   `json:"isDefault"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.EstablishmentSettings, isDefault bool) *SettingsResponse {
	resp := &SettingsResponse{
		EstablishmentID: s.EstablishmentID.String(),
		OpenTime:        s.OpenTime.String(),
		CloseTime:       s.CloseTime.String(),
		SlotStepMinutes: s.SlotStepMinutes,
		IsDefault:       isDefault,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
