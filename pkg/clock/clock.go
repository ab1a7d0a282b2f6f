// Package clock is the time source for refresh timers, delayed navigation and
// settlement polling. Production code uses the wall clock; tests drive a fake.
package clock

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

type (
	Clock = clockwork.Clock
	Timer = clockwork.Timer
	// Fake only moves when Advance is called. AfterFunc callbacks run on their
	// own goroutine once their deadline passes.
	Fake = clockwork.FakeClock
)

func Real() Clock { return clockwork.NewRealClock() }

func NewFake(start time.Time) *Fake { return clockwork.NewFakeClockAt(start) }

// WaitForTimers blocks until c has n armed timers or timeout elapses.
func WaitForTimers(c *Fake, n int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.BlockUntilContext(ctx, n)
}
