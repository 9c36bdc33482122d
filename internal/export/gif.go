package export

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/windscope/internal/viz"
)

// dotSize is the edge of one braille dot in GIF pixels.
const dotSize = 3

var gifPalette = color.Palette{
	color.RGBA{0x0a, 0x0a, 0x0a, 0xff},
	color.RGBA{0x67, 0xe8, 0xf9, 0xff},
}

// Recorder collects canvas frames for an animated GIF.
type Recorder struct {
	frames []*image.Paletted
	delay  int
}

// NewRecorder records frames shown for delay hundredths of a second each.
func NewRecorder(delay int) *Recorder {
	if delay < 1 {
		delay = 1
	}
	return &Recorder{delay: delay}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture rasterizes the lit dots of c into a new frame.
func (r *Recorder) Capture(c *viz.Canvas) {
	r.frames = append(r.frames, CanvasFrame(c))
}

// CanvasFrame draws every lit braille dot as a dotSize square.
func CanvasFrame(c *viz.Canvas) *image.Paletted {
	w, h := c.SubWidth(), c.SubHeight()
	img := image.NewPaletted(image.Rect(0, 0, w*dotSize, h*dotSize), gifPalette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotSize; py++ {
				for px := 0; px < dotSize; px++ {
					img.SetColorIndex(x*dotSize+px, y*dotSize+py, 1)
				}
			}
		}
	}
	return img
}

func (r *Recorder) WriteGIF(w io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, r.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (r *Recorder) SaveGIF(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteGIF(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
