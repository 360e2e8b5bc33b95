package ai

import (
	"context"
	"sync"
	"time"
)

// RateGate enforces a minimum delay between any two external reasoning
// calls. All call sites (main pipeline and node expansion alike) acquire
// the gate before issuing a request, which serializes and spaces external
// traffic regardless of call origin.
//
// The clock and sleep functions are injectable so the gate can be tested
// deterministically.
type RateGate struct {
	mu       sync.Mutex
	minDelay time.Duration
	lastCall time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// RateGateParams configures a new RateGate. Now and Sleep default to the
// real clock when nil.
type RateGateParams struct {
	MinDelay time.Duration

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRateGate creates a gate with the given minimum delay between calls.
func NewRateGate(params RateGateParams) *RateGate {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	sleep := params.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return &RateGate{
		minDelay: params.MinDelay,
		now:      now,
		sleep:    sleep,
	}
}

// Wait blocks until at least the minimum delay has passed since the
// previous acquisition, then records the current time as the new last-call
// timestamp. It returns early with the context error if ctx is done.
func (g *RateGate) Wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.minDelay > 0 && !g.lastCall.IsZero() {
		elapsed := g.now().Sub(g.lastCall)
		if remaining := g.minDelay - elapsed; remaining > 0 {
			if err := g.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}

	g.lastCall = g.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
