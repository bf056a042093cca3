package resilience

import (
	"math/rand/v2"
	"time"
)

// maxBackoff caps the exponential wait so a large retry budget cannot
// stall a run for minutes on a single page.
const maxBackoff = 60 * time.Second

// BackoffFor computes the wait before the next attempt, given the failure
// class and the zero-based attempt number just completed.
//
// Rate-limited failures wait 2^attempt seconds plus uniform jitter in
// [0,1s); server and transport failures wait exactly 2^attempt seconds.
// Client errors are not retried and get no backoff.
func BackoffFor(c Class, attempt int) time.Duration {
	if !c.Retryable() {
		return 0
	}

	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > maxBackoff || d <= 0 {
		d = maxBackoff
	}

	if c == ClassRateLimited {
		d += time.Duration(rand.Float64() * float64(time.Second))
	}

	return d
}
