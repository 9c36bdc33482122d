// Package tone renders oscillator banks as audio: PCM synthesis, WAV files
// and live playback through the system audio device.
package tone

import (
	"io"
	"math"

	"github.com/san-kum/windscope/internal/wave"
)

const (
	DefaultSampleRate = 44100
	ChannelCount      = 2
	// SoloGain is the fixed gain used when a single oscillator is auditioned.
	SoloGain = 0.3
)

// Synth produces the composite of a bank of sine tones. Each tone shares a
// gain of volume/N so the mix never exceeds the volume setting.
type Synth struct {
	oscs       []wave.Oscillator
	gain       float64
	sampleRate int
	frame      int64
}

// NewSynth builds a synth for oscs at volume percent in [0, 100].
func NewSynth(oscs []wave.Oscillator, volume float64, sampleRate int) *Synth {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Synth{
		oscs:       append([]wave.Oscillator(nil), oscs...),
		gain:       Gain(volume, len(oscs)),
		sampleRate: sampleRate,
	}
}

// Solo builds a synth that plays one oscillator at SoloGain.
func Solo(o wave.Oscillator, sampleRate int) *Synth {
	s := NewSynth([]wave.Oscillator{o}, 0, sampleRate)
	s.gain = SoloGain
	return s
}

// Gain is the per-tone gain for n tones at volume percent.
func Gain(volume float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	v := math.Max(0, math.Min(volume, 100)) / 100
	return v / float64(n)
}

func (s *Synth) Gain() float64   { return s.gain }
func (s *Synth) SampleRate() int { return s.sampleRate }

// At returns the mixed sample at frame i.
func (s *Synth) At(i int64) float64 {
	return s.gain * wave.Evaluate(s.oscs, float64(i)/float64(s.sampleRate))
}

// Render returns mono samples in [-volume, volume] covering seconds.
func (s *Synth) Render(seconds float64) []float64 {
	n := s.Frames(seconds)
	out := make([]float64, n)
	for i := range out {
		out[i] = s.At(int64(i))
	}
	return out
}

func (s *Synth) Frames(seconds float64) int {
	if !(seconds > 0) {
		return 0
	}
	return int(math.Round(seconds * float64(s.sampleRate)))
}

// Read fills p with interleaved 16-bit little-endian stereo frames. It never
// returns io.EOF; wrap it with io.LimitReader to bound playback.
func (s *Synth) Read(p []byte) (int, error) {
	const frameBytes = 2 * ChannelCount
	n := len(p) / frameBytes
	for i := 0; i < n; i++ {
		v := toInt16(s.At(s.frame))
		s.frame++
		for ch := 0; ch < ChannelCount; ch++ {
			off := i*frameBytes + ch*2
			p[off] = byte(v)
			p[off+1] = byte(uint16(v) >> 8)
		}
	}
	return n * frameBytes, nil
}

// Reader returns a stream of exactly seconds of PCM.
func (s *Synth) Reader(seconds float64) io.Reader {
	return io.LimitReader(s, int64(s.Frames(seconds))*2*ChannelCount)
}

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(math.Round(v * math.MaxInt16))
}
