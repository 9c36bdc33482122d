// Package animate plays a winding trace forward over wall-clock time.
//
// A Scheduler owns at most one session. A session moves Idle -> Running on
// Start and back to Idle either when its Handle is cancelled or when the
// progress cursor reaches 1.0. The two exits are exclusive: a cancelled
// session never completes, and a completed session ignores Cancel.
//
// The scheduler has no clock of its own. Callers advance it with Tick,
// typically from a Bubble Tea tick message or from Drive, which reads a
// time.Ticker channel.
//
// Example:
//
//	s := animate.New(animate.DefaultOptions())
//	h, err := s.Start(req, func(trace []winding.Point, p float64) {
//		draw(trace, p)
//	}, func() { fmt.Println("done") })
//	if err != nil {
//		return err
//	}
//	defer h.Cancel()
//	ticker := time.NewTicker(time.Second / 30)
//	defer ticker.Stop()
//	return animate.Drive(ctx, s, ticker.C)
//
// # Thread Safety
//
// Scheduler state is guarded by a mutex and callbacks run without holding
// it, so a callback may call Cancel or Start. Tick, Start and Cancel must be
// called from the goroutine that owns the frame clock. Other goroutines stop
// a session by cancelling the context passed to Drive; a Cancel racing a
// Tick from another goroutine may still see one frame in flight.
package animate
