package animate

import (
	"context"
	"time"
)

// Drive ticks s from the ticks channel until the scheduler goes idle, the
// channel closes, or ctx is done. On ctx cancellation the active session is
// cancelled before Drive returns ctx.Err().
func Drive(ctx context.Context, s *Scheduler, ticks <-chan time.Time) error {
	var last time.Time
	for s.Running() {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case now, ok := <-ticks:
			if !ok {
				return nil
			}
			var dt time.Duration
			if !last.IsZero() {
				dt = now.Sub(last)
			}
			last = now
			s.Tick(dt)
		}
	}
	return nil
}
