package update_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	updateAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, error) {}

type fakeUseCase struct {
	executeFn func(ctx context.Context, req *updateAppointment.Request) (*models.AppointmentResponse, error)
}

func (f *fakeUseCase) Execute(ctx context.Context, req *updateAppointment.Request) (*models.AppointmentResponse, error) {
	if f.executeFn == nil {
		panic("Execute not configured")
	}
	return f.executeFn(ctx, req)
}

func newRequest(actorID, establishmentID, id uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{
		"establishmentId": establishmentID.String(),
		"id":              id.String(),
	})
	return req.WithContext(middleware.WithUserID(req.Context(), actorID))
}

func TestHandler_Handle_PatchSemantics(t *testing.T) {
	actorID, establishmentID, id := uuid.New(), uuid.New(), uuid.New()

	capture := func(got **updateAppointment.Request) *fakeUseCase {
		return &fakeUseCase{executeFn: func(_ context.Context, req *updateAppointment.Request) (*models.AppointmentResponse, error) {
			*got = req
			return &models.AppointmentResponse{ID: id.String()}, nil
		}}
	}

	t.Run("notes only leaves other fields untouched", func(t *testing.T) {
		var got *updateAppointment.Request
		rec := httptest.NewRecorder()
		NewHandler(capture(&got), nopMetrics{}, nopLogger{}).Handle(rec, newRequest(actorID, establishmentID, id, `{"notes":"окрашивание"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Nil(t, got.StaffID)
		assert.Nil(t, got.StartTime)
		assert.Nil(t, got.ServiceIDs)
		assert.Nil(t, got.Status)
		require.NotNil(t, got.Notes)
		assert.Equal(t, "окрашивание", *got.Notes)
		assert.False(t, got.ClearNotes)
	})

	t.Run("null notes clears notes", func(t *testing.T) {
		var got *updateAppointment.Request
		rec := httptest.NewRecorder()
		NewHandler(capture(&got), nopMetrics{}, nopLogger{}).Handle(rec, newRequest(actorID, establishmentID, id, `{"notes":null}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.True(t, got.ClearNotes)
		assert.Nil(t, got.Notes)
	})

	t.Run("missing notes are left as is", func(t *testing.T) {
		var got *updateAppointment.Request
		rec := httptest.NewRecorder()
		NewHandler(capture(&got), nopMetrics{}, nopLogger{}).Handle(rec, newRequest(actorID, establishmentID, id, `{"status":"CONFIRMED"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.False(t, got.ClearNotes)
		assert.Nil(t, got.Notes)
	})

	t.Run("notes of wrong type rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHandler(&fakeUseCase{}, nopMetrics{}, nopLogger{}).Handle(rec, newRequest(actorID, establishmentID, id, `{"notes":42}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty service list clears services", func(t *testing.T) {
		var got *updateAppointment.Request
		rec := httptest.NewRecorder()
		NewHandler(capture(&got), nopMetrics{}, nopLogger{}).Handle(rec, newRequest(actorID, establishmentID, id, `{"serviceIds":[]}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got.ServiceIDs)
		assert.Empty(t, got.ServiceIDs)
	})

	t.Run("start time and staff", func(t *testing.T) {
		staffID := uuid.New()
		var got *updateAppointment.Request
		rec := httptest.NewRecorder()
		body := `{"staffId":"` + staffID.String() + `","startTime":"2026-03-10T11:00:00Z"}`
		NewHandler(capture(&got), nopMetrics{}, nopLogger{}).Handle(rec, newRequest(actorID, establishmentID, id, body))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, staffID, *got.StaffID)
		assert.Equal(t, 11, got.StartTime.Hour())
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHandler(&fakeUseCase{}, nopMetrics{}, nopLogger{}).Handle(rec, newRequest(actorID, establishmentID, id, `{"price":1}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Handle_Errors(t *testing.T) {
	actorID, establishmentID, id := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperror.NotFound(domain.CodeAppointmentNotFound, nil), http.StatusNotFound},
		{"forbidden", apperror.Forbidden(domain.CodeAppointmentAccessDenied, nil), http.StatusForbidden},
		{"concurrent modification", apperror.Conflict(domain.CodeConcurrentModification, nil), http.StatusConflict},
		{"invalid input", updateAppointment.ErrInvalidInput, http.StatusBadRequest},
		{"internal", updateAppointment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{executeFn: func(context.Context, *updateAppointment.Request) (*models.AppointmentResponse, error) {
				return nil, tt.err
			}}
			rec := httptest.NewRecorder()
			NewHandler(uc, nopMetrics{}, nopLogger{}).Handle(rec, newRequest(actorID, establishmentID, id, `{"status":"CONFIRMED"}`))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
