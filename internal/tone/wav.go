package tone

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const bitDepth = 16

// WriteWAV encodes seconds of the synth as 16-bit stereo PCM.
func WriteWAV(w io.WriteSeeker, s *Synth, seconds float64) error {
	enc := wav.NewEncoder(w, s.sampleRate, bitDepth, ChannelCount, 1)

	mono := s.Render(seconds)
	data := make([]int, 0, len(mono)*ChannelCount)
	for _, v := range mono {
		sample := int(toInt16(v))
		for ch := 0; ch < ChannelCount; ch++ {
			data = append(data, sample)
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: ChannelCount, SampleRate: s.sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return enc.Close()
}

func SaveWAV(path string, s *Synth, seconds float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, s, seconds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
