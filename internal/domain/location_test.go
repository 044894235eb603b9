package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	t.Run("Valid postcode", func(t *testing.T) {
		loc, err := NewLocation("EH13 7EB", "Maximillian Ruffert Avenue")
		require.NoError(t, err)
		assert.Equal(t, "EH13 7EB", loc.Postcode)
	})

	t.Run("Short postcode", func(t *testing.T) {
		_, err := NewLocation("EH13", "Toby Lane")
		assert.ErrorIs(t, err, ErrInvalidLocation)
		assert.True(t, IsValidation(err))
	})

	t.Run("Exactly six characters", func(t *testing.T) {
		_, err := NewLocation("EH137E", "")
		assert.NoError(t, err)
	})

	t.Run("MustLocation panics", func(t *testing.T) {
		assert.Panics(t, func() { MustLocation("KY1", "") })
	})
}

func TestLocation_IsNearTo(t *testing.T) {
	loc1 := MustLocation("EH13 7EB", "Maximillian Ruffert Avenue")
	loc2 := MustLocation("EH23 6NL", "Toby Lane")
	loc3 := MustLocation("BT17 6NL", "Maximillian Ruffert Avenue")

	assert.True(t, loc1.IsNearTo(loc2))
	assert.True(t, loc2.IsNearTo(loc1))

	assert.False(t, loc3.IsNearTo(loc1))
	assert.False(t, loc1.IsNearTo(loc3))
	assert.False(t, loc2.IsNearTo(loc3))
	assert.False(t, loc3.IsNearTo(loc2))

	for _, l := range []Location{loc1, loc2, loc3} {
		assert.True(t, l.IsNearTo(l))
	}

	t.Run("Case sensitive", func(t *testing.T) {
		assert.False(t, MustLocation("eh13 7EB", "").IsNearTo(loc1))
	})
}
