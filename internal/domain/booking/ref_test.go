package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	id := uuid.New()

	ref, err := ParseRef(id.String())
	require.NoError(t, err)
	got, ok := ref.UUID()
	require.True(t, ok)
	assert.Equal(t, id, got)
	_, hasLegacy := ref.Legacy()
	assert.False(t, hasLegacy)

	ref, err = ParseRef("1042")
	require.NoError(t, err)
	legacy, ok := ref.Legacy()
	require.True(t, ok)
	assert.Equal(t, int64(1042), legacy)
	_, hasUUID := ref.UUID()
	assert.False(t, hasUUID)

	for _, bad := range []string{"", "abc", "-5", "0", "12.7"} {
		_, err := ParseRef(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestRefKeyPrefersUUID(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, id.String(), NewRef(id).Key())
	assert.Equal(t, id.String(), NewDualRef(id, 55).Key())
	assert.Equal(t, "legacy:55", NewLegacyRef(55).Key())
}

func TestRefEqual(t *testing.T) {
	id := uuid.New()
	other := uuid.New()

	assert.True(t, NewRef(id).Equal(NewRef(id)))
	assert.False(t, NewRef(id).Equal(NewRef(other)))

	// UUIDs win when both sides carry one, even with conflicting serials.
	assert.True(t, NewDualRef(id, 1).Equal(NewDualRef(id, 2)))
	assert.False(t, NewDualRef(id, 7).Equal(NewDualRef(other, 7)))

	// Legacy comparison only applies when a side has no UUID.
	assert.True(t, NewLegacyRef(7).Equal(NewDualRef(id, 7)))
	assert.False(t, NewLegacyRef(7).Equal(NewLegacyRef(8)))

	assert.False(t, Ref{}.Equal(Ref{}))
}

func TestRefIsZero(t *testing.T) {
	assert.True(t, Ref{}.IsZero())
	assert.False(t, NewRef(uuid.New()).IsZero())
	assert.False(t, NewLegacyRef(1).IsZero())
}
