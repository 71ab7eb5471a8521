package get_appointments

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestToServiceRequest(t *testing.T) {
	actorID, establishmentID, staffID := uuid.New(), uuid.New(), uuid.New()

	t.Run("all filters", func(t *testing.T) {
		query := url.Values{
			"staffId":        {staffID.String()},
			"status":         {"CONFIRMED"},
			"startDate":      {"2026-03-01"},
			"endDate":        {"2026-03-31"},
			"includeDeleted": {"true"},
			"page":           {"2"},
			"limit":          {"50"},
		}

		req, err := ToServiceRequest(actorID, establishmentID, query)
		require.NoError(t, err)
		assert.Equal(t, staffID, *req.StaffID)
		assert.Equal(t, domain.StatusConfirmed, *req.Status)
		assert.True(t, req.StartDate.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
		assert.Equal(t, 23, req.EndDate.Hour())
		assert.Equal(t, 31, req.EndDate.Day())
		assert.True(t, req.IncludeDeleted)
		assert.Equal(t, 2, req.Page)
		assert.Equal(t, 50, req.Limit)
	})

	t.Run("no filters", func(t *testing.T) {
		req, err := ToServiceRequest(actorID, establishmentID, url.Values{})
		require.NoError(t, err)
		assert.Nil(t, req.StaffID)
		assert.Nil(t, req.CustomerID)
		assert.False(t, req.IncludeDeleted)
		assert.Zero(t, req.Page)
	})

	t.Run("rfc3339 bound", func(t *testing.T) {
		req, err := ToServiceRequest(actorID, establishmentID, url.Values{"endDate": {"2026-03-10T12:00:00Z"}})
		require.NoError(t, err)
		assert.Equal(t, 12, req.EndDate.Hour())
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := ToServiceRequest(actorID, establishmentID, url.Values{"status": {"DONE"}})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("invalid values", func(t *testing.T) {
		for _, q := range []url.Values{
			{"customerId": {"x"}},
			{"startDate": {"March"}},
			{"includeDeleted": {"maybe"}},
			{"page": {"-1"}},
		} {
			_, err := ToServiceRequest(actorID, establishmentID, q)
			assert.Error(t, err, q.Encode())
		}
	})
}
