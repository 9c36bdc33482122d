package animate

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

var ErrRunning = errors.New("animate: a session is already running")

const (
	DefaultDuration   = 3 * time.Second
	DefaultResolution = winding.DefaultTraceResolution
)

// FrameFunc receives the partial trace wound so far and the progress in [0, 1].
type FrameFunc func(trace []winding.Point, progress float64)

type Options struct {
	Duration   time.Duration
	Resolution int
	BaseRadius float64
	Origin     winding.Point
}

func DefaultOptions() Options {
	return Options{
		Duration:   DefaultDuration,
		Resolution: DefaultResolution,
		BaseRadius: winding.AnalysisRadius,
	}
}

func (o Options) normalized() Options {
	if o.Duration < 0 {
		o.Duration = 0
	}
	if o.Resolution <= 0 {
		o.Resolution = DefaultResolution
	}
	if o.BaseRadius <= 0 {
		o.BaseRadius = winding.AnalysisRadius
	}
	return o
}

// Request describes what a session winds.
type Request struct {
	Oscillators []wave.Oscillator
	StartMs     float64
	RangeMs     float64
	LapRate     float64
}

type state int

const (
	running state = iota
	cancelled
	completed
)

type session struct {
	oscs       []wave.Oscillator
	startMs    float64
	rangeMs    float64
	mapper     winding.Mapper
	progress   float64
	state      state
	onFrame    FrameFunc
	onComplete func()
}

// partial winds the sub-range covered by progress p using the scale factor
// of the whole range.
func (ss *session) partial(p float64, resolution int) []winding.Point {
	if len(ss.oscs) == 0 || p <= 0 {
		return []winding.Point{}
	}
	n := int(math.Ceil(p * float64(resolution)))
	if n < 1 {
		n = 1
	}
	if n > resolution {
		n = resolution
	}
	return ss.mapper.WindAll(wave.Sample(ss.oscs, ss.startMs, p*ss.rangeMs, n))
}

type Scheduler struct {
	mu   sync.Mutex
	opts Options
	cur  *session
}

func New(opts Options) *Scheduler {
	return &Scheduler{opts: opts.normalized()}
}

func (s *Scheduler) Options() Options { return s.opts }

// Running reports whether a session is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur != nil
}

// Progress returns the cursor of the active session, or 0 when idle.
func (s *Scheduler) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return 0
	}
	return s.cur.progress
}

// Start begins a session. It fails with ErrRunning while another session is
// active; the caller cancels that one first.
func (s *Scheduler) Start(req Request, onFrame FrameFunc, onComplete func()) (*Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil {
		return nil, ErrRunning
	}

	oscs := append([]wave.Oscillator(nil), req.Oscillators...)
	full := wave.Sample(oscs, req.StartMs, req.RangeMs, s.opts.Resolution)
	ss := &session{
		oscs:       oscs,
		startMs:    req.StartMs,
		rangeMs:    req.RangeMs,
		mapper:     winding.NewMapper(s.opts.Origin, s.opts.BaseRadius, winding.NormalizeLapRate(req.LapRate), full.MaxAbs),
		state:      running,
		onFrame:    onFrame,
		onComplete: onComplete,
	}
	s.cur = ss
	return &Handle{s: s, ss: ss}, nil
}

// Tick advances the active session by dt and delivers one frame. The frame
// that reaches progress 1.0 is followed by onComplete, after the scheduler
// is already idle.
func (s *Scheduler) Tick(dt time.Duration) {
	s.mu.Lock()
	ss := s.cur
	if ss == nil {
		s.mu.Unlock()
		return
	}
	if dt > 0 {
		if s.opts.Duration <= 0 {
			ss.progress = 1
		} else {
			ss.progress += float64(dt) / float64(s.opts.Duration)
		}
	}
	if ss.progress > 1 {
		ss.progress = 1
	}
	p := ss.progress
	s.mu.Unlock()

	trace := ss.partial(p, s.opts.Resolution)
	if !s.alive(ss) {
		return
	}
	if ss.onFrame != nil {
		ss.onFrame(trace, p)
	}
	if p < 1 {
		return
	}

	s.mu.Lock()
	if ss.state != running {
		s.mu.Unlock()
		return
	}
	ss.state = completed
	if s.cur == ss {
		s.cur = nil
	}
	s.mu.Unlock()

	if ss.onComplete != nil {
		ss.onComplete()
	}
}

// Stop cancels the active session, if any.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	ss := s.cur
	s.mu.Unlock()
	if ss != nil {
		(&Handle{s: s, ss: ss}).Cancel()
	}
}

func (s *Scheduler) alive(ss *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ss.state == running
}

// Handle is the cancellation token of one session.
//
// Cancel, like Start and Tick, belongs to the goroutine that drives the
// frame clock, and it may be called from inside a callback. Other goroutines
// hand the request to that goroutine (Drive does this through its context)
// rather than calling Cancel directly: a Cancel racing a Tick can return
// while that Tick is about to deliver its frame.
type Handle struct {
	s  *Scheduler
	ss *session
}

// Cancel ends the session. Once it returns no further callback of this
// session fires on the ticking goroutine. Cancelling twice, or after completion, does nothing.
func (h *Handle) Cancel() {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	if h.ss.state != running {
		return
	}
	h.ss.state = cancelled
	if h.s.cur == h.ss {
		h.s.cur = nil
	}
}

func (h *Handle) Cancelled() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.ss.state == cancelled
}

func (h *Handle) Completed() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return h.ss.state == completed
}
