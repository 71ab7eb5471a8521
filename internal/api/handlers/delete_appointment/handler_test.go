package delete_appointment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, error) {}

type fakeService struct {
	deleteFn func(ctx context.Context, establishmentID, id, actorID uuid.UUID) error
}

func (f *fakeService) Delete(ctx context.Context, establishmentID, id, actorID uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, establishmentID, id, actorID)
}

func TestHandler_Handle(t *testing.T) {
	actorID, establishmentID, id := uuid.New(), uuid.New(), uuid.New()

	newRequest := func(rawID string) *http.Request {
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		req = mux.SetURLVars(req, map[string]string{"establishmentId": establishmentID.String(), "id": rawID})
		return req.WithContext(middleware.WithUserID(req.Context(), actorID))
	}

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"not found", apperror.NotFound(domain.CodeAppointmentNotFound, nil), http.StatusNotFound},
		{"forbidden", apperror.Forbidden(domain.CodeAppointmentAccessDenied, nil), http.StatusForbidden},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{deleteFn: func(_ context.Context, est, gotID, actor uuid.UUID) error {
				assert.Equal(t, establishmentID, est)
				assert.Equal(t, id, gotID)
				assert.Equal(t, actorID, actor)
				return tt.err
			}}

			rec := httptest.NewRecorder()
			NewHandler(svc, nopMetrics{}, nopLogger{}).Handle(rec, newRequest(id.String()))
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	t.Run("invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHandler(&fakeService{}, nopMetrics{}, nopLogger{}).Handle(rec, newRequest("42"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
