package viewer

import "time"

// Limiter paces a loop to a fixed rate.
type Limiter struct {
	rate int
	next time.Time
}

// NewLimiter paces to rate ticks per second. rate <= 0 never waits.
func NewLimiter(rate int) *Limiter {
	return &Limiter{rate: rate}
}

// Interval is the time between ticks, 0 when unlimited.
func (l *Limiter) Interval() time.Duration {
	if l.rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(l.rate)
}

// Wait blocks until the next tick is due. Sleeps most of the gap and spins
// the last 200µs.
func (l *Limiter) Wait() {
	target := l.Interval()
	if target == 0 {
		l.next = time.Time{}
		return
	}

	if l.next.IsZero() {
		l.next = time.Now().Add(target)
	} else {
		l.next = l.next.Add(target)
	}

	for {
		remaining := time.Until(l.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		if time.Until(l.next) <= 0 {
			break
		}
	}

	// resync after a hitch instead of bursting to catch up
	if late := -time.Until(l.next); late > target {
		l.next = time.Now().Add(target)
	}
}
