package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	Register()

	before := testutil.ToFloat64(bookingConflicts)
	IncConflict()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingConflicts))

	IncReservations("semester", 16)
	assert.GreaterOrEqual(t, testutil.ToFloat64(reservationsCreated.WithLabelValues("semester")), 16.0)

	IncCheckIn("ok")
	assert.GreaterOrEqual(t, testutil.ToFloat64(checkIns.WithLabelValues("ok")), 1.0)
}
