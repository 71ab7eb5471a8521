package delete_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const operation = "delete"

const (
	msgUnauthorized         = "требуется авторизация"
	msgInvalidEstablishment = "некорректный ID заведения"
	msgInvalidAppointmentID = "некорректный ID записи"
)

type Handler struct {
	service AppointmentService
	metrics OperationMetrics
	logger  Logger
}

func NewHandler(service AppointmentService, metrics OperationMetrics, logger Logger) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/establishments/{establishmentId}/appointments/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	establishmentID, err := handlers.PathUUID(r, "establishmentId")
	if err != nil {
		h.logger.Warn("DELETE /appointments/{id} - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishment)
		return
	}

	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("DELETE /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	err = h.service.Delete(r.Context(), establishmentID, appointmentID, actorID)
	h.metrics.ObserveOperation(operation, err)
	if err != nil {
		if handlers.RespondAppError(w, err) {
			h.logger.Warn("DELETE /appointments/{id} - Rejected: appointment_id=%s, actor=%s, error=%v", appointmentID, actorID, err)
			return
		}
		h.logger.Error("DELETE /appointments/{id} - Failed to delete appointment: appointment_id=%s, error=%v", appointmentID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /appointments/{id} - Appointment deleted successfully: appointment_id=%s, actor=%s", appointmentID, actorID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
