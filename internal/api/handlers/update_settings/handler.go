package update_settings

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgUnauthorized         = "требуется авторизация"
	msgInvalidEstablishment = "некорректный ID заведения"
	msgInvalidRequestBody   = "некорректное тело запроса"
)

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

// Handle PUT /api/v1/establishments/{establishmentId}/settings
// Только владелец заведения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	establishmentID, err := handlers.PathUUID(r, "establishmentId")
	if err != nil {
		h.logger.Warn("PUT /settings - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishment)
		return
	}

	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), req.ToServiceRequest(actorID, establishmentID))
	if err != nil {
		if handlers.RespondAppError(w, err) {
			h.logger.Warn("PUT /settings - Rejected: establishment=%s, actor=%s, error=%v", establishmentID, actorID, err)
			return
		}
		h.logger.Error("PUT /settings - Failed to update settings: establishment=%s, error=%v", establishmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /settings - Settings updated successfully: establishment=%s, actor=%s", establishmentID, actorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
