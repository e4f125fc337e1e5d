package service

import (
	"testing"

	"mixlab/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroupRef(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		ref := NewGroupRef()
		require.Len(t, ref, 9)
		for _, c := range ref {
			assert.True(t, (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z'), "unexpected character %q in %s", c, ref)
		}
		assert.False(t, seen[ref], "group refs must not repeat")
		seen[ref] = true
	}
}

func TestSequenceID(t *testing.T) {
	assert.Equal(t, "ABC123XYZ-1", SequenceID("ABC123XYZ", 0))
	assert.Equal(t, "ABC123XYZ-16", SequenceID("ABC123XYZ", 15))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusDone, false},
		{models.StatusConfirmed, models.StatusCheckIn, true},
		{models.StatusConfirmed, models.StatusNoShow, true},
		{models.StatusCheckIn, models.StatusDone, true},
		{models.StatusCheckIn, models.StatusCancelled, false},
		{models.StatusNoShow, models.StatusConfirmed, true},
		{models.StatusDone, models.StatusPending, false},
		{models.StatusCancelled, models.StatusConfirmed, false},
		{models.StatusConfirmed, models.StatusConfirmed, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
