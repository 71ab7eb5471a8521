package get_settings

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgInvalidEstablishment = "некорректный ID заведения"

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/settings
// Публичный endpoint - без авторизации; без сохранённых настроек отдаёт значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	establishmentID, err := handlers.PathUUID(r, "establishmentId")
	if err != nil {
		h.logger.Warn("GET /settings - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishment)
		return
	}

	result, err := h.service.Get(r.Context(), establishmentID)
	if err != nil {
		h.logger.Error("GET /settings - Failed to get settings: establishment=%s, error=%v", establishmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /settings - Settings retrieved successfully: establishment=%s, default=%t", establishmentID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
