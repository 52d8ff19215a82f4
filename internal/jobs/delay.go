package jobs

import (
	"math"
	"math/rand/v2"
	"time"
)

// DelayStrategy picks the pause before poll attempt+1. Implementations
// must never return less than interval.
type DelayStrategy interface {
	Delay(interval time.Duration, attempt int) time.Duration
}

// ConstantDelay waits exactly the poll interval every time.
type ConstantDelay struct{}

func (ConstantDelay) Delay(interval time.Duration, _ int) time.Duration {
	return interval
}

// maxDelay is the largest delay that survives the float64 round trip.
const maxDelay = float64(math.MaxInt64 / 2)

// JitteredBackoff doubles the interval per attempt up to Max and adds up
// to Jitter (a fraction) of random extra delay.
type JitteredBackoff struct {
	Max    time.Duration
	Jitter float64
}

func NewJitteredBackoff(maxDelay time.Duration, jitter float64) *JitteredBackoff {
	return &JitteredBackoff{Max: maxDelay, Jitter: jitter}
}

func (b *JitteredBackoff) Delay(interval time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	if attempt > 32 {
		attempt = 32
	}

	base := float64(interval) * math.Pow(2, float64(attempt-1))
	if b.Max > 0 && base > float64(max(b.Max, interval)) {
		base = float64(max(b.Max, interval))
	}

	jitter := 0.0
	if b.Jitter > 0 {
		jitter = rand.Float64() * b.Jitter * base //nolint:gosec // jitter does not need crypto rand
	}

	return time.Duration(min(base+jitter, maxDelay))
}
