package booking

import (
	"testing"

	"github.com/mystic-tours/service-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))

			err := Transition(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				var stateErr *domain.InvalidStateError
				require.ErrorAs(t, err, &stateErr)
				assert.Equal(t, string(tt.from), stateErr.From)
				assert.Equal(t, string(tt.to), stateErr.To)
			}
		})
	}
}

func TestTransitionSameStatusIsNoOp(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCancelled} {
		assert.NoError(t, Transition(s, s))
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseStatus("archived")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}
