package update_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
)

const operation = "update"

const (
	msgUnauthorized          = "требуется авторизация"
	msgInvalidEstablishment  = "некорректный ID заведения"
	msgInvalidAppointmentID  = "некорректный ID записи"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidRequestFields  = "некорректные идентификаторы или время начала, ожидается UUID и RFC 3339"
	msgInvalidAppointmentReq = "некорректные данные записи"
)

type Handler struct {
	useCase UpdateAppointmentUseCase
	metrics OperationMetrics
	logger  Logger
}

func NewHandler(useCase UpdateAppointmentUseCase, metrics OperationMetrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/establishments/{establishmentId}/appointments/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	establishmentID, err := handlers.PathUUID(r, "establishmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishment)
		return
	}

	appointmentID, err := handlers.PathUUID(r, "id")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actorID, establishmentID, appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	h.metrics.ObserveOperation(operation, err)
	if err != nil {
		switch {
		case handlers.RespondAppError(w, err):
			h.logger.Warn("PATCH /appointments/{id} - Rejected: appointment_id=%s, actor=%s, error=%v", appointmentID, actorID, err)

		case errors.Is(err, updateAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAppointmentReq)

		default:
			h.logger.Error("PATCH /appointments/{id} - Failed to update appointment: appointment_id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id} - Appointment updated successfully: appointment_id=%s", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
