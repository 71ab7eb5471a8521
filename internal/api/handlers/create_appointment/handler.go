package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const operation = "create"

const (
	msgUnauthorized          = "требуется авторизация"
	msgInvalidEstablishment  = "некорректный ID заведения"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidRequestFields  = "некорректные идентификаторы или время начала, ожидается UUID и RFC 3339"
	msgInvalidAppointmentReq = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	metrics OperationMetrics
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, metrics OperationMetrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/establishments/{establishmentId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	establishmentID, err := handlers.PathUUID(r, "establishmentId")
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishment)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actorID, establishmentID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestFields)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	h.metrics.ObserveOperation(operation, err)
	if err != nil {
		switch {
		case handlers.RespondAppError(w, err):
			h.logger.Warn("POST /appointments - Rejected: establishment=%s, actor=%s, error=%v", establishmentID, actorID, err)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAppointmentReq)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: establishment=%s, actor=%s, error=%v",
				establishmentID, actorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%s, establishment=%s",
		result.ID, establishmentID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
