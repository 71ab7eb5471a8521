package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/pipeline"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
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

type fakeAccess struct {
	services map[uuid.UUID]domain.Service
}

func (f *fakeAccess) ResolveAccess(context.Context, uuid.UUID, uuid.UUID) (*domain.AccessResult, error) {
	return &domain.AccessResult{IsOwner: true}, nil
}

func (f *fakeAccess) ValidateStaffExists(_ context.Context, _ uuid.UUID, staffID uuid.UUID) (*domain.StaffMember, error) {
	return &domain.StaffMember{ID: staffID, IsActive: true}, nil
}

func (f *fakeAccess) ValidateServicesExist(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]domain.Service, error) {
	out := make([]domain.Service, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.services[id])
	}
	return out, nil
}

type denyRule struct{}

func (denyRule) Name() string { return "deny" }

func (denyRule) Validate(context.Context, pipeline.Context) error {
	return apperror.BadRequest(domain.CodeServiceNotAllowedForStaff, nil)
}

type fakeSettings struct {
	settings *domain.EstablishmentSettings
}

func (f fakeSettings) Effective(_ context.Context, establishmentID uuid.UUID) (*domain.EstablishmentSettings, bool, error) {
	if f.settings == nil {
		return domain.DefaultSettings(establishmentID), true, nil
	}
	return f.settings, false, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func TestUseCase_Execute(t *testing.T) {
	svc := uuid.New()
	staffID := uuid.New()
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	var window [2]time.Time
	repo := &fakeRepo{
		findConflictingFn: func(_ context.Context, _ uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error) {
			assert.Nil(t, excludeID)
			window = [2]time.Time{start, end}
			return []*domain.Appointment{{
				StartTime: day.Add(10 * time.Hour),
				EndTime:   day.Add(11 * time.Hour),
				Status:    domain.StatusConfirmed,
			}}, nil
		},
	}

	uc := NewUseCase(
		repo,
		&fakeAccess{services: map[uuid.UUID]domain.Service{svc: {ID: svc, Price: 3000, Duration: 60}}},
		pipeline.New(nopLogger{}),
		fakeSettings{settings: &domain.EstablishmentSettings{
			OpenTime:        types.MustTimeString("09:00"),
			CloseTime:       types.MustTimeString("13:00"),
			SlotStepMinutes: 60,
		}},
		nopLogger{},
	)
	uc.timeProvider = fixedClock{now: day.Add(-24 * time.Hour)}

	resp, err := uc.Execute(context.Background(), &Request{
		ActorID:         uuid.New(),
		EstablishmentID: uuid.New(),
		StaffID:         staffID,
		Date:            day.Add(15 * time.Hour),
		ServiceIDs:      []uuid.UUID{svc},
	})
	require.NoError(t, err)

	assert.Equal(t, day.Add(9*time.Hour), window[0])
	assert.Equal(t, day.Add(13*time.Hour), window[1])
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, []string{"09:00", "11:00", "12:00"}, starts(resp.Slots))
}

func TestUseCase_Execute_PipelineFailure(t *testing.T) {
	svc := uuid.New()
	uc := NewUseCase(
		&fakeRepo{},
		&fakeAccess{services: map[uuid.UUID]domain.Service{svc: {ID: svc, Duration: 30}}},
		pipeline.New(nopLogger{}, denyRule{}),
		fakeSettings{},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), &Request{
		EstablishmentID: uuid.New(),
		StaffID:         uuid.New(),
		Date:            time.Now(),
		ServiceIDs:      []uuid.UUID{svc},
	})
	assert.ErrorIs(t, err, domain.ErrServiceNotAllowedForStaff)
}

func TestUseCase_Execute_RequiresServices(t *testing.T) {
	uc := NewUseCase(&fakeRepo{}, &fakeAccess{}, pipeline.New(nopLogger{}), fakeSettings{}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{
		EstablishmentID: uuid.New(),
		StaffID:         uuid.New(),
		Date:            time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
