package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByCode(t *testing.T) {
	sentinel := New(KindNotFound, "SERVICE_NOT_FOUND")
	err := fmt.Errorf("wrapped: %w", NotFound("SERVICE_NOT_FOUND", Params{"serviceId": "svc-1"}))

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, New(KindNotFound, "CUSTOMER_NOT_FOUND"))
}

func TestError_MessageIsStable(t *testing.T) {
	err := Conflict("MEMBER_APPOINTMENT_CONFLICT", Params{"staffId": "s1", "conflictStart": "10:00"})
	assert.Equal(t, "MEMBER_APPOINTMENT_CONFLICT (conflictStart=10:00, staffId=s1)", err.Error())
	assert.Equal(t, "INVALID_TIME_RANGE", BadRequest("INVALID_TIME_RANGE", nil).Error())
}

func TestAsAndKindOf(t *testing.T) {
	err := fmt.Errorf("ctx: %w", Forbidden("APPOINTMENT_ACCESS_DENIED", Params{"actorId": "a"}))

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "a", appErr.Params["actorId"])

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindForbidden, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
