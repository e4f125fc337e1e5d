package worker

import (
	"math"
	"time"
)

// RetryPolicy controls how notification delivery is retried. A failed send
// is re-attempted with exponentially growing delays so a flapping mail or
// webhook endpoint is not hammered; MaxDelay caps the wait between attempts.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns how long to wait before the given attempt. Attempts are
// 1-based; attempt 1 waits InitialDelay. Zero or negative policy fields fall
// back to one second and a factor of two.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = time.Second
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}

	d := time.Duration(float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1)))
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = time.Second
	}
	return d
}
