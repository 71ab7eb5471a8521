package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/pipeline"
	"github.com/m04kA/SMC-AppointmentService/internal/service/rules"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	createFn          func(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	findConflictingFn func(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error)
}

func (f *fakeRepo) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, appointment)
}

func (f *fakeRepo) FindConflicting(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error) {
	if f.findConflictingFn == nil {
		panic("FindConflicting not configured")
	}
	return f.findConflictingFn(ctx, staffID, start, end, excludeID)
}

// fakeAccess заведение с одним клиентом, сотрудниками и каталогом услуг
type fakeAccess struct {
	access   *domain.AccessResult
	services map[uuid.UUID]domain.Service
	allowed  map[uuid.UUID]bool
}

func (f *fakeAccess) ResolveAccess(context.Context, uuid.UUID, uuid.UUID) (*domain.AccessResult, error) {
	return f.access, nil
}

func (f *fakeAccess) AssertActorCanActForTarget(access *domain.AccessResult, actorID, targetStaffID uuid.UUID) error {
	if access.CanActForAnyone() || (access.IsRestricted() && actorID == targetStaffID) {
		return nil
	}
	return apperror.Forbidden(domain.CodeAppointmentAccessDenied, apperror.Params{"actorId": actorID.String()})
}

func (f *fakeAccess) ValidateCustomerExists(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (f *fakeAccess) ValidateStaffExists(_ context.Context, establishmentID, staffID uuid.UUID) (*domain.StaffMember, error) {
	return &domain.StaffMember{ID: staffID, EstablishmentID: establishmentID, IsActive: true}, nil
}

func (f *fakeAccess) ValidateServicesExist(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]domain.Service, error) {
	out := make([]domain.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := f.services[id]
		if !ok {
			return nil, apperror.NotFound(domain.CodeServiceNotFound, apperror.Params{"serviceId": id.String()})
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeAccess) ValidateStaffAllowedServices(_ context.Context, _, _ uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		if !f.allowed[id] {
			return apperror.BadRequest(domain.CodeServiceNotAllowedForStaff, apperror.Params{"serviceId": id.String()})
		}
	}
	return nil
}

// fakeTx выполняет функцию без транзакции
type fakeTx struct {
	calls int
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fixture struct {
	repo   *fakeRepo
	access *fakeAccess
	tx     *fakeTx
	uc     *UseCase

	establishmentID uuid.UUID
	staffID         uuid.UUID
	svc1, svc2      uuid.UUID
}

func newFixture(access *domain.AccessResult) *fixture {
	f := &fixture{
		repo:            &fakeRepo{},
		tx:              &fakeTx{},
		establishmentID: uuid.New(),
		staffID:         uuid.New(),
		svc1:            uuid.New(),
		svc2:            uuid.New(),
	}

	f.access = &fakeAccess{
		access: access,
		services: map[uuid.UUID]domain.Service{
			f.svc1: {ID: f.svc1, Name: "Стрижка", Price: 3000, Duration: 30, Commission: 0.4, IsActive: true},
			f.svc2: {ID: f.svc2, Name: "Борода", Price: 1500, Duration: 20, Commission: 0.3, IsActive: true},
		},
		allowed: map[uuid.UUID]bool{f.svc1: true, f.svc2: true},
	}

	f.uc = NewUseCase(
		f.repo,
		f.access,
		rules.NewRules(f.repo, nopLogger{}),
		pipeline.New(nopLogger{}, pipeline.NewStaffAllowedServicesRule(f.access)),
		f.tx,
		nopLogger{},
	)
	return f
}

func (f *fixture) request(actorID uuid.UUID, start time.Time, serviceIDs ...uuid.UUID) *Request {
	return &Request{
		ActorID:         actorID,
		EstablishmentID: f.establishmentID,
		CustomerID:      uuid.New(),
		StaffID:         f.staffID,
		StartTime:       start,
		ServiceIDs:      serviceIDs,
	}
}

func noConflicts(context.Context, uuid.UUID, time.Time, time.Time, *uuid.UUID) ([]*domain.Appointment, error) {
	return nil, nil
}

// одна услуга 3000/30 минут
func TestUseCase_Execute_ComputesTotals(t *testing.T) {
	f := newFixture(&domain.AccessResult{IsOwner: true})
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	var saved *domain.Appointment
	f.repo.findConflictingFn = noConflicts
	f.repo.createFn = func(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
		saved = a
		out := *a
		out.ID = uuid.New()
		return &out, nil
	}

	resp, err := f.uc.Execute(context.Background(), f.request(uuid.New(), start, f.svc1))
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, domain.StatusPending, saved.Status)
	assert.Equal(t, int64(3000), saved.TotalAmount)
	assert.Equal(t, 30, saved.TotalDuration)
	assert.Equal(t, start.Add(30*time.Minute), saved.EndTime)
	require.Len(t, saved.Services, 1)
	assert.Equal(t, "Стрижка", saved.Services[0].ServiceName)

	assert.Equal(t, "2025-06-01T10:30:00Z", resp.EndTime)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, 1, f.tx.calls)
}

func TestUseCase_Execute_KeepsServiceOrder(t *testing.T) {
	f := newFixture(&domain.AccessResult{IsOwner: true})
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	var saved *domain.Appointment
	f.repo.findConflictingFn = noConflicts
	f.repo.createFn = func(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
		saved = a
		return a, nil
	}

	_, err := f.uc.Execute(context.Background(), f.request(uuid.New(), start, f.svc2, f.svc1))
	require.NoError(t, err)

	require.Len(t, saved.Services, 2)
	assert.Equal(t, f.svc2, saved.Services[0].ServiceID)
	assert.Equal(t, f.svc1, saved.Services[1].ServiceID)
	assert.Equal(t, int64(4500), saved.TotalAmount)
	assert.Equal(t, start.Add(50*time.Minute), saved.EndTime)
}

// существующая запись 10:00-11:00, новая 10:30-11:30
func TestUseCase_Execute_TimeConflict(t *testing.T) {
	f := newFixture(&domain.AccessResult{IsOwner: true})
	f.access.services[f.svc1] = domain.Service{ID: f.svc1, Price: 3000, Duration: 60, IsActive: true}

	existingID := uuid.New()
	existingStart := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	f.repo.findConflictingFn = func(_ context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*domain.Appointment, error) {
		assert.Equal(t, f.staffID, staffID)
		assert.Nil(t, excludeID)
		assert.Equal(t, existingStart.Add(90*time.Minute), end)
		return []*domain.Appointment{{ID: existingID, StaffID: staffID, StartTime: existingStart, EndTime: existingStart.Add(time.Hour)}}, nil
	}

	_, err := f.uc.Execute(context.Background(), f.request(uuid.New(), existingStart.Add(30*time.Minute), f.svc1))

	require.ErrorIs(t, err, domain.ErrMemberAppointmentConflict)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, existingID.String(), appErr.Params["conflictingAppointmentId"])
	assert.Equal(t, "2025-06-01T10:00:00Z", appErr.Params["conflictStart"])
	assert.Equal(t, "2025-06-01T11:00:00Z", appErr.Params["conflictEnd"])
}

// барбер записывает клиента к другому сотруднику
func TestUseCase_Execute_BarberForAnotherStaff(t *testing.T) {
	f := newFixture(&domain.AccessResult{
		Assignment: &domain.StaffAssignment{ID: uuid.New(), Role: domain.RoleBarber, IsActive: true},
	})

	_, err := f.uc.Execute(context.Background(), f.request(uuid.New(), time.Now(), f.svc1))

	assert.ErrorIs(t, err, domain.ErrAppointmentAccessDenied)
	assert.Equal(t, 0, f.tx.calls)
}

func TestUseCase_Execute_BarberForSelf(t *testing.T) {
	f := newFixture(&domain.AccessResult{
		Assignment: &domain.StaffAssignment{ID: uuid.New(), Role: domain.RoleBarber, IsActive: true},
	})
	f.repo.findConflictingFn = noConflicts
	f.repo.createFn = func(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) { return a, nil }

	_, err := f.uc.Execute(context.Background(), f.request(f.staffID, time.Now(), f.svc1))
	assert.NoError(t, err)
}

func TestUseCase_Execute_ServiceNotAllowed(t *testing.T) {
	f := newFixture(&domain.AccessResult{IsOwner: true})
	delete(f.access.allowed, f.svc2)

	_, err := f.uc.Execute(context.Background(), f.request(uuid.New(), time.Now(), f.svc1, f.svc2))

	assert.ErrorIs(t, err, domain.ErrServiceNotAllowedForStaff)
	assert.Equal(t, 0, f.tx.calls)
}

func TestUseCase_Execute_EmptyServicesIsInvalidRange(t *testing.T) {
	f := newFixture(&domain.AccessResult{IsOwner: true})
	f.repo.findConflictingFn = noConflicts

	_, err := f.uc.Execute(context.Background(), f.request(uuid.New(), time.Now()))

	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestUseCase_Execute_StoreRaces(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		want    error
	}{
		{
			name:    "exclusion constraint",
			repoErr: fmt.Errorf("%w: Create: %v", appointmentRepo.ErrOverlap, &pq.Error{Code: "23P01"}),
			want:    domain.ErrMemberAppointmentConflict,
		},
		{
			name:    "serialization failure on commit",
			repoErr: &pq.Error{Code: "40001"},
			want:    domain.ErrConcurrentModification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(&domain.AccessResult{IsOwner: true})
			f.repo.findConflictingFn = noConflicts
			f.repo.createFn = func(context.Context, *domain.Appointment) (*domain.Appointment, error) {
				return nil, tt.repoErr
			}

			_, err := f.uc.Execute(context.Background(), f.request(uuid.New(), time.Now(), f.svc1))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUseCase_Execute_InternalError(t *testing.T) {
	f := newFixture(&domain.AccessResult{IsOwner: true})
	f.repo.findConflictingFn = noConflicts
	f.repo.createFn = func(context.Context, *domain.Appointment) (*domain.Appointment, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.uc.Execute(context.Background(), f.request(uuid.New(), time.Now(), f.svc1))
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	f := newFixture(&domain.AccessResult{IsOwner: true})

	req := f.request(uuid.New(), time.Now(), f.svc1)
	req.Notes = ptr.Ptr(string(make([]rune, domain.MaxNotesLength+1)))

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
