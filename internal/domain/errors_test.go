package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "typed error", err: NotFound("catalog.get", "service", "house"), want: ENOTFOUND},
		{name: "wrapped typed error", err: fmt.Errorf("outer: %w", Invalid("op", "bad")), want: EINVALID},
		{name: "plain error", err: errors.New("boom"), want: EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestErrorMessage_HidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("pq: relation does not exist"), "catalog.list", "failed to list services")
	msg := ErrorMessage(err)
	assert.NotContains(t, msg, "pq:")
	assert.NotContains(t, msg, "relation")
}

func TestErrorMessage_ShowsClientErrors(t *testing.T) {
	err := UsageLimitExceeded("estimate.submit", 100, 100)
	assert.Contains(t, ErrorMessage(err), "100/100")
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	err := PersistenceFailed(underlying, "estimate.submit")
	assert.True(t, errors.Is(err, underlying))
	assert.Equal(t, EUNAVAILABLE, ErrorCode(err))
}

func TestErrorOp(t *testing.T) {
	assert.Equal(t, "estimate.submit", ErrorOp(SubscriptionExpired("estimate.submit")))
	assert.Equal(t, "", ErrorOp(errors.New("plain")))
}
