package notify

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle drops notifications above a rate instead of queueing them.
type Throttle struct {
	next    Speaker
	limiter *rate.Limiter
}

// NewThrottle allows perMinute notifications per minute with a burst of one.
// A non-positive rate disables throttling.
func NewThrottle(next Speaker, perMinute int) *Throttle {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &Throttle{next: next, limiter: rate.NewLimiter(limit, 1)}
}

// Speak forwards text unless the rate is exceeded.
func (t *Throttle) Speak(ctx context.Context, text string) error {
	if !t.limiter.Allow() {
		return ErrThrottled
	}
	return t.next.Speak(ctx, text)
}
