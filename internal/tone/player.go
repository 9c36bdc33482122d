package tone

import (
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

var (
	otoCtx     *oto.Context
	otoOnce    sync.Once
	otoInitErr error
)

// the device is opened once per process; oto allows a single context
func initOto(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: ChannelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return otoCtx, otoInitErr
}

// Play streams seconds of s to the default audio device and blocks until
// playback ends or ctx is done.
func Play(ctx context.Context, s *Synth, seconds float64) error {
	c, err := initOto(s.sampleRate)
	if err != nil {
		return err
	}

	p := c.NewPlayer(s.Reader(seconds))
	defer p.Close()
	p.Play()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			p.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return p.Err()
}
