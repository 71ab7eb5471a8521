package rules

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	findConflictingFn func(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error)
}

func (f *fakeRepo) FindConflicting(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error) {
	if f.findConflictingFn == nil {
		panic("FindConflicting not configured")
	}
	return f.findConflictingFn(ctx, staffID, start, end, excludeID)
}

func at(h, m int) time.Time {
	return time.Date(2025, 6, 1, h, m, 0, 0, time.UTC)
}

func TestValidateTimeRange(t *testing.T) {
	assert.NoError(t, ValidateTimeRange(at(10, 0), at(10, 30)))

	for _, end := range []time.Time{at(10, 0), at(9, 0)} {
		err := ValidateTimeRange(at(10, 0), end)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.KindBadRequest, appErr.Kind)
		assert.Equal(t, domain.CodeInvalidTimeRange, appErr.Code)
		assert.Equal(t, "2025-06-01T10:00:00Z", appErr.Params["startTime"])
	}
}

func TestCalculateTotalsAndEndTime(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		totals := CalculateTotalsAndEndTime(at(10, 0), []domain.ServiceLine{{Price: 3000, Duration: 30}})

		assert.Equal(t, int64(3000), totals.TotalAmount)
		assert.Equal(t, 30, totals.TotalDuration)
		assert.Equal(t, at(10, 30), totals.EndTime)
	})

	t.Run("several lines", func(t *testing.T) {
		totals := CalculateTotalsAndEndTime(at(10, 0), []domain.ServiceLine{
			{Price: 3000, Duration: 30},
			{Price: 1500, Duration: 45},
		})

		assert.Equal(t, int64(4500), totals.TotalAmount)
		assert.Equal(t, 75, totals.TotalDuration)
		assert.Equal(t, at(11, 15), totals.EndTime)
	})

	t.Run("empty", func(t *testing.T) {
		totals := CalculateTotalsAndEndTime(at(10, 0), nil)

		assert.Zero(t, totals.TotalAmount)
		assert.Zero(t, totals.TotalDuration)
		assert.Equal(t, at(10, 0), totals.EndTime)
	})
}

func TestRules_ValidateNoTimeConflict(t *testing.T) {
	staffID := uuid.New()
	existingID := uuid.New()

	t.Run("no conflicts", func(t *testing.T) {
		r := NewRules(&fakeRepo{
			findConflictingFn: func(context.Context, uuid.UUID, time.Time, time.Time, *uuid.UUID) ([]*domain.Appointment, error) {
				return nil, nil
			},
		}, nopLogger{})

		assert.NoError(t, r.ValidateNoTimeConflict(context.Background(), staffID, at(11, 0), at(12, 0), nil))
	})

	t.Run("cites earliest conflict", func(t *testing.T) {
		var gotExclude *uuid.UUID
		self := uuid.New()

		r := NewRules(&fakeRepo{
			findConflictingFn: func(_ context.Context, _ uuid.UUID, _, _ time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error) {
				gotExclude = excludeID
				return []*domain.Appointment{
					{ID: existingID, StartTime: at(10, 0), EndTime: at(11, 0)},
					{ID: uuid.New(), StartTime: at(11, 0), EndTime: at(11, 30)},
				}, nil
			},
		}, nopLogger{})

		err := r.ValidateNoTimeConflict(context.Background(), staffID, at(10, 30), at(11, 30), &self)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMemberAppointmentConflict)

		appErr, _ := apperror.As(err)
		assert.Equal(t, apperror.KindConflict, appErr.Kind)
		assert.Equal(t, existingID.String(), appErr.Params["conflictingAppointmentId"])
		assert.Equal(t, "2025-06-01T10:00:00Z", appErr.Params["conflictStart"])
		assert.Equal(t, "2025-06-01T11:00:00Z", appErr.Params["conflictEnd"])
		require.NotNil(t, gotExclude)
		assert.Equal(t, self, *gotExclude)
	})

	t.Run("store failure", func(t *testing.T) {
		r := NewRules(&fakeRepo{
			findConflictingFn: func(context.Context, uuid.UUID, time.Time, time.Time, *uuid.UUID) ([]*domain.Appointment, error) {
				return nil, errors.New("timeout")
			},
		}, nopLogger{})

		err := r.ValidateNoTimeConflict(context.Background(), staffID, at(10, 0), at(11, 0), nil)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestLinesFromServices(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	lines := LinesFromServices([]domain.Service{
		{ID: a, Name: "Стрижка", Price: 3000, Duration: 30, Commission: 0.4},
		{ID: b, Name: "Укладка", Price: 1000, Duration: 15},
	})

	require.Len(t, lines, 2)
	assert.Equal(t, a, lines[0].ServiceID)
	assert.Equal(t, "Стрижка", lines[0].ServiceName)
	assert.InDelta(t, 0.4, lines[0].Commission, 1e-9)
	assert.Equal(t, b, lines[1].ServiceID)
}
