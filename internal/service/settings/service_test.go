package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/settings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/apperror"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	getFn    func(ctx context.Context, establishmentID uuid.UUID) (*domain.EstablishmentSettings, error)
	upsertFn func(ctx context.Context, settings *domain.EstablishmentSettings) (*domain.EstablishmentSettings, error)
}

func (f *fakeRepo) Get(ctx context.Context, establishmentID uuid.UUID) (*domain.EstablishmentSettings, error) {
	if f.getFn == nil {
		panic("Get not configured")
	}
	return f.getFn(ctx, establishmentID)
}

func (f *fakeRepo) Upsert(ctx context.Context, settings *domain.EstablishmentSettings) (*domain.EstablishmentSettings, error) {
	if f.upsertFn == nil {
		panic("Upsert not configured")
	}
	return f.upsertFn(ctx, settings)
}

type fakeAccess struct {
	result *domain.AccessResult
}

func (f fakeAccess) ResolveAccess(context.Context, uuid.UUID, uuid.UUID) (*domain.AccessResult, error) {
	return f.result, nil
}

func TestService_Get(t *testing.T) {
	establishmentID := uuid.New()

	t.Run("defaults when nothing stored", func(t *testing.T) {
		svc := NewService(&fakeRepo{
			getFn: func(context.Context, uuid.UUID) (*domain.EstablishmentSettings, error) {
				return nil, settingsRepo.ErrSettingsNotFound
			},
		}, fakeAccess{}, nopLogger{})

		resp, err := svc.Get(context.Background(), establishmentID)
		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		assert.Equal(t, domain.DefaultOpenTime, resp.OpenTime)
		assert.Equal(t, domain.DefaultCloseTime, resp.CloseTime)
		assert.Equal(t, domain.DefaultSlotStepMinutes, resp.SlotStepMinutes)
	})

	t.Run("stored", func(t *testing.T) {
		svc := NewService(&fakeRepo{
			getFn: func(context.Context, uuid.UUID) (*domain.EstablishmentSettings, error) {
				return &domain.EstablishmentSettings{
					EstablishmentID: establishmentID,
					OpenTime:        types.MustTimeString("10:00"),
					CloseTime:       types.MustTimeString("18:00"),
					SlotStepMinutes: 30,
				}, nil
			},
		}, fakeAccess{}, nopLogger{})

		resp, err := svc.Get(context.Background(), establishmentID)
		require.NoError(t, err)
		assert.False(t, resp.IsDefault)
		assert.Equal(t, "10:00", resp.OpenTime)
		assert.Equal(t, 30, resp.SlotStepMinutes)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc := NewService(&fakeRepo{
			getFn: func(context.Context, uuid.UUID) (*domain.EstablishmentSettings, error) {
				return nil, errors.New("timeout")
			},
		}, fakeAccess{}, nopLogger{})

		_, err := svc.Get(context.Background(), establishmentID)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_Update(t *testing.T) {
	valid := func() *models.UpdateSettingsRequest {
		return &models.UpdateSettingsRequest{
			ActorID:         uuid.New(),
			EstablishmentID: uuid.New(),
			OpenTime:        "08:30",
			CloseTime:       "21:00",
			SlotStepMinutes: 20,
		}
	}

	saving := &fakeRepo{
		upsertFn: func(_ context.Context, s *domain.EstablishmentSettings) (*domain.EstablishmentSettings, error) {
			return s, nil
		},
	}

	t.Run("owner saves", func(t *testing.T) {
		svc := NewService(saving, fakeAccess{result: &domain.AccessResult{IsOwner: true}}, nopLogger{})

		resp, err := svc.Update(context.Background(), valid())
		require.NoError(t, err)
		assert.Equal(t, "08:30", resp.OpenTime)
		assert.Equal(t, 20, resp.SlotStepMinutes)
	})

	t.Run("receptionist is denied", func(t *testing.T) {
		access := &domain.AccessResult{Assignment: &domain.StaffAssignment{Role: domain.RoleReceptionist, IsActive: true}}
		svc := NewService(&fakeRepo{}, fakeAccess{result: access}, nopLogger{})

		_, err := svc.Update(context.Background(), valid())
		assert.ErrorIs(t, err, domain.ErrSettingsAccessDenied)
	})

	invalid := []struct {
		name   string
		mutate func(r *models.UpdateSettingsRequest)
		field  string
	}{
		{"bad open format", func(r *models.UpdateSettingsRequest) { r.OpenTime = "8:30" }, "openTime"},
		{"close before open", func(r *models.UpdateSettingsRequest) { r.CloseTime = "08:00" }, "closeTime"},
		{"equal bounds", func(r *models.UpdateSettingsRequest) { r.CloseTime = r.OpenTime }, "closeTime"},
		{"step too small", func(r *models.UpdateSettingsRequest) { r.SlotStepMinutes = 4 }, "slotStepMinutes"},
		{"step too large", func(r *models.UpdateSettingsRequest) { r.SlotStepMinutes = 241 }, "slotStepMinutes"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeRepo{}, fakeAccess{result: &domain.AccessResult{IsOwner: true}}, nopLogger{})

			req := valid()
			tt.mutate(req)

			_, err := svc.Update(context.Background(), req)
			require.ErrorIs(t, err, domain.ErrInvalidSettings)
			appErr, _ := apperror.As(err)
			assert.Equal(t, tt.field, appErr.Params["field"])
		})
	}
}
