package get_appointments

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgUnauthorized         = "требуется авторизация"
	msgInvalidEstablishment = "некорректный ID заведения"
	msgInvalidParams        = "некорректные параметры запроса"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	establishmentID, err := handlers.PathUUID(r, "establishmentId")
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishment)
		return
	}

	serviceReq, err := ToServiceRequest(actorID, establishmentID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid parameters: %v", err)
		if !handlers.RespondAppError(w, err) {
			handlers.RespondBadRequest(w, msgInvalidParams)
		}
		return
	}

	// Сервис сам сузит выборку для BARBER/HAIRDRESSER
	result, err := h.service.FindAll(r.Context(), serviceReq)
	if err != nil {
		if handlers.RespondAppError(w, err) {
			h.logger.Warn("GET /appointments - Rejected: establishment=%s, actor=%s, error=%v", establishmentID, actorID, err)
			return
		}
		h.logger.Error("GET /appointments - Failed to get appointments: establishment=%s, error=%v", establishmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved successfully: establishment=%s, count=%d, total=%d",
		establishmentID, len(result.Items), result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
