package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgUnauthorized         = "требуется авторизация"
	msgInvalidEstablishment = "некорректный ID заведения"
	msgMissingParams        = "параметры staffId, date и serviceIds обязательны"
	msgInvalidParams        = "некорректные параметры запроса, ожидается UUID и дата YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/establishments/{establishmentId}/available-slots
// Query params: staffId, date (YYYY-MM-DD), serviceIds (обязательные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	establishmentID, err := handlers.PathUUID(r, "establishmentId")
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid establishment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEstablishment)
		return
	}

	query := r.URL.Query()
	staffIDStr := query.Get("staffId")
	dateStr := query.Get("date")
	serviceIDs := query["serviceIds"]
	if staffIDStr == "" || dateStr == "" || len(serviceIDs) == 0 {
		h.logger.Warn("GET /available-slots - Missing required parameters")
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	useCaseReq, err := ToUseCaseRequest(actorID, establishmentID, staffIDStr, dateStr, serviceIDs)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case handlers.RespondAppError(w, err):
			h.logger.Warn("GET /available-slots - Rejected: establishment=%s, staff=%s, error=%v", establishmentID, staffIDStr, err)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: establishment=%s, staff=%s, error=%v",
				establishmentID, staffIDStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - Slots retrieved successfully: establishment=%s, staff=%s, date=%s, count=%d",
		establishmentID, staffIDStr, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
