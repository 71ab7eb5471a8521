package get_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgUnauthorized         = "требуется авторизация"
	msgInvalidEstablishment = "некорректный ID заведения"
	msgInvalidAppointmentID = "некорректный ID записи"
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

// Handle GET /api/v1/establishments/{establishmentId}/appointments/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	establishmentID, err := handlers.PathUUID(r, "establishmentId")
	if err != nil {
		h.logger.Warn("GET /appointments/{id} - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishment)
		return
	}

	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("GET /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	appointment, err := h.service.GetByID(r.Context(), establishmentID, appointmentID, actorID)
	if err != nil {
		if handlers.RespondAppError(w, err) {
			h.logger.Warn("GET /appointments/{id} - Rejected: appointment_id=%s, actor=%s, error=%v", appointmentID, actorID, err)
			return
		}
		h.logger.Error("GET /appointments/{id} - Failed to get appointment: appointment_id=%s, error=%v", appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments/{id} - Appointment retrieved successfully: appointment_id=%s", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
