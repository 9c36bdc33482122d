package animate_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/windscope/internal/animate"
	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

var _ = Describe("Scheduler", func() {
	var (
		s         *animate.Scheduler
		req       animate.Request
		frames    int
		completes int
		last      []winding.Point
		progress  float64
		onFrame   animate.FrameFunc
		onDone    func()
	)

	BeforeEach(func() {
		s = animate.New(animate.Options{Duration: time.Second, Resolution: 1000})
		req = animate.Request{
			Oscillators: []wave.Oscillator{{Frequency: 1}},
			StartMs:     0,
			RangeMs:     1000,
			LapRate:     1,
		}
		frames, completes, progress = 0, 0, 0
		last = nil
		onFrame = func(trace []winding.Point, p float64) {
			frames++
			last = trace
			progress = p
		}
		onDone = func() { completes++ }
	})

	It("starts idle", func() {
		Expect(s.Running()).To(BeFalse())
		Expect(s.Progress()).To(BeZero())
		s.Tick(time.Second)
		Expect(frames).To(BeZero())
	})

	It("refuses a second session while one is running", func() {
		h, err := s.Start(req, onFrame, onDone)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Running()).To(BeTrue())

		_, err = s.Start(req, onFrame, onDone)
		Expect(err).To(MatchError(animate.ErrRunning))

		h.Cancel()
		_, err = s.Start(req, onFrame, onDone)
		Expect(err).NotTo(HaveOccurred())
	})

	It("grows the partial trace with progress", func() {
		_, err := s.Start(req, onFrame, onDone)
		Expect(err).NotTo(HaveOccurred())

		s.Tick(250 * time.Millisecond)
		Expect(progress).To(BeNumerically("~", 0.25, 1e-12))
		first := len(last)
		Expect(first).To(BeNumerically("~", 250, 1))

		s.Tick(250 * time.Millisecond)
		Expect(progress).To(BeNumerically("~", 0.5, 1e-12))
		Expect(len(last)).To(BeNumerically(">", first))
		Expect(s.Progress()).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("scales the partial trace by the whole range", func() {
		_, err := s.Start(req, onFrame, onDone)
		Expect(err).NotTo(HaveOccurred())

		s.Tick(100 * time.Millisecond)
		Expect(last).NotTo(BeEmpty())
		for _, p := range last {
			Expect(p.Norm()).To(BeNumerically("<", 150))
		}
	})

	It("completes exactly once", func() {
		_, err := s.Start(req, onFrame, onDone)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 5; i++ {
			s.Tick(300 * time.Millisecond)
		}
		Expect(completes).To(Equal(1))
		Expect(progress).To(Equal(1.0))
		Expect(last).To(HaveLen(1000))
		Expect(s.Running()).To(BeFalse())

		framesAtEnd := frames
		s.Tick(time.Second)
		s.Tick(time.Second)
		Expect(completes).To(Equal(1))
		Expect(frames).To(Equal(framesAtEnd))
	})

	It("fires no callback after Cancel returns", func() {
		h, err := s.Start(req, onFrame, onDone)
		Expect(err).NotTo(HaveOccurred())

		s.Tick(100 * time.Millisecond)
		s.Tick(100 * time.Millisecond)
		h.Cancel()
		frozen := frames

		for i := 0; i < 20; i++ {
			s.Tick(100 * time.Millisecond)
		}
		Expect(frames).To(Equal(frozen))
		Expect(completes).To(BeZero())
		Expect(h.Cancelled()).To(BeTrue())
		Expect(h.Completed()).To(BeFalse())
	})

	It("treats Cancel as idempotent and a no-op after completion", func() {
		h, err := s.Start(req, onFrame, onDone)
		Expect(err).NotTo(HaveOccurred())
		s.Tick(2 * time.Second)
		Expect(h.Completed()).To(BeTrue())

		h.Cancel()
		h.Cancel()
		Expect(h.Cancelled()).To(BeFalse())
		Expect(completes).To(Equal(1))
	})

	It("does not complete a session cancelled from its final frame", func() {
		var h *animate.Handle
		h, err := s.Start(req, func(trace []winding.Point, p float64) {
			frames++
			if p >= 1 {
				h.Cancel()
			}
		}, onDone)
		Expect(err).NotTo(HaveOccurred())

		s.Tick(2 * time.Second)
		Expect(frames).To(Equal(1))
		Expect(completes).To(BeZero())
		Expect(s.Running()).To(BeFalse())
	})

	It("allows a new session from the completion callback", func() {
		var restarted *animate.Handle
		_, err := s.Start(req, onFrame, func() {
			completes++
			var err error
			restarted, err = s.Start(req, onFrame, nil)
			Expect(err).NotTo(HaveOccurred())
		})
		Expect(err).NotTo(HaveOccurred())

		s.Tick(2 * time.Second)
		Expect(completes).To(Equal(1))
		Expect(restarted).NotTo(BeNil())
		Expect(s.Running()).To(BeTrue())
	})

	It("emits empty traces for an empty oscillator set", func() {
		req.Oscillators = nil
		_, err := s.Start(req, onFrame, onDone)
		Expect(err).NotTo(HaveOccurred())

		s.Tick(500 * time.Millisecond)
		Expect(last).To(BeEmpty())
		s.Tick(500 * time.Millisecond)
		Expect(completes).To(Equal(1))
	})

	It("jumps to completion with a zero duration", func() {
		s = animate.New(animate.Options{})
		Expect(s.Options().Resolution).To(Equal(animate.DefaultResolution))
		_, err := s.Start(req, onFrame, onDone)
		Expect(err).NotTo(HaveOccurred())

		s.Tick(time.Millisecond)
		Expect(progress).To(Equal(1.0))
		Expect(completes).To(Equal(1))
	})

	It("ignores its own snapshot being mutated by the caller", func() {
		_, err := s.Start(req, onFrame, onDone)
		Expect(err).NotTo(HaveOccurred())
		req.Oscillators[0].Frequency = 1e6

		s.Tick(time.Second)
		Expect(last).To(HaveLen(1000))
		for _, p := range last {
			Expect(p.IsFinite()).To(BeTrue())
			Expect(p.Norm()).To(BeNumerically("<=", 180+1e-9))
		}
	})
})

var _ = Describe("Drive", func() {
	It("runs a session to completion from a tick channel", func() {
		s := animate.New(animate.Options{Duration: time.Second})
		completed := 0
		_, err := s.Start(animate.Request{
			Oscillators: []wave.Oscillator{{Frequency: 2}},
			RangeMs:     1000,
			LapRate:     2,
		}, nil, func() { completed++ })
		Expect(err).NotTo(HaveOccurred())

		ticks := make(chan time.Time, 16)
		base := time.Unix(0, 0)
		for i := 0; i < 16; i++ {
			ticks <- base.Add(time.Duration(i) * 100 * time.Millisecond)
		}
		close(ticks)

		Expect(animate.Drive(context.Background(), s, ticks)).To(Succeed())
		Expect(completed).To(Equal(1))
		Expect(s.Running()).To(BeFalse())
	})

	It("returns nil when the clock stops first", func() {
		s := animate.New(animate.DefaultOptions())
		_, err := s.Start(animate.Request{RangeMs: 1000}, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		ticks := make(chan time.Time)
		close(ticks)
		Expect(animate.Drive(context.Background(), s, ticks)).To(Succeed())
		Expect(s.Running()).To(BeTrue())
	})

	It("cancels the session when the context ends", func() {
		s := animate.New(animate.DefaultOptions())
		frames := 0
		h, err := s.Start(animate.Request{RangeMs: 1000}, func([]winding.Point, float64) { frames++ }, nil)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = animate.Drive(ctx, s, make(chan time.Time))
		Expect(err).To(MatchError(context.Canceled))
		Expect(h.Cancelled()).To(BeTrue())
		Expect(frames).To(BeZero())
	})

	It("stops a session on a cancel requested from another goroutine", func() {
		s := animate.New(animate.Options{Duration: time.Hour})
		seen := make(chan struct{}, 8)
		frames := 0
		h, err := s.Start(animate.Request{
			Oscillators: []wave.Oscillator{{Frequency: 1}},
			RangeMs:     1000,
			LapRate:     1,
		}, func([]winding.Point, float64) {
			frames++
			seen <- struct{}{}
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		ticks := make(chan time.Time)
		done := make(chan error, 1)
		go func() { done <- animate.Drive(ctx, s, ticks) }()

		base := time.Unix(0, 0)
		for i := 0; i < 3; i++ {
			ticks <- base.Add(time.Duration(i) * time.Second)
			Eventually(seen).Should(Receive())
		}
		cancel()

		Eventually(done).Should(Receive(MatchError(context.Canceled)))
		Expect(frames).To(Equal(3))
		Expect(h.Cancelled()).To(BeTrue())
		Expect(s.Running()).To(BeFalse())
	})
})
