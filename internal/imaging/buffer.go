package imaging

import (
	"fmt"
	"math"
)

// Buffer is the raw pixel storage owned by a TypedImage. Samples are 8-bit,
// row-major and interleaved: the sample for channel c of pixel (x, y) lives
// at Pix[(y*Width+x)*Channels+c]. Three-channel buffers use B,G,R order.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(width, height, channels int) Buffer {
	return Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Clone returns a deep copy.
func (b Buffer) Clone() Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	b.Pix = pix
	return b
}

// Index returns the offset of channel c of pixel (x, y) in Pix.
func (b Buffer) Index(x, y, c int) int {
	return (y*b.Width+x)*b.Channels + c
}

// At returns one sample. No bounds checking is performed.
func (b Buffer) At(x, y, c int) uint8 {
	return b.Pix[(y*b.Width+x)*b.Channels+c]
}

// Inside reports whether (x, y) addresses a pixel of the buffer.
func (b Buffer) Inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// SameShape reports whether two buffers have identical size and channel count.
func (b Buffer) SameShape(o Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height && b.Channels == o.Channels
}

// SameSize reports whether two buffers have identical spatial size.
func (b Buffer) SameSize(o Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height
}

// Channel extracts one plane as a single-channel buffer.
func (b Buffer) Channel(c int) Buffer {
	out := NewBuffer(b.Width, b.Height, 1)
	for i := 0; i < b.Width*b.Height; i++ {
		out.Pix[i] = b.Pix[i*b.Channels+c]
	}
	return out
}

// MergeChannels interleaves single-channel planes of identical size.
func MergeChannels(planes ...Buffer) Buffer {
	if len(planes) == 0 {
		return Buffer{}
	}
	w, h, n := planes[0].Width, planes[0].Height, len(planes)
	out := NewBuffer(w, h, n)
	for c, p := range planes {
		for i := 0; i < w*h; i++ {
			out.Pix[i*n+c] = p.Pix[i]
		}
	}
	return out
}

// Map applies fn to every sample and returns the result as a new buffer.
func (b Buffer) Map(fn func(uint8) uint8) Buffer {
	out := NewBuffer(b.Width, b.Height, b.Channels)
	for i, v := range b.Pix {
		out.Pix[i] = fn(v)
	}
	return out
}

// ApplyTable maps every sample through a 256-entry lookup table.
func (b Buffer) ApplyTable(table *[256]uint8) Buffer {
	out := NewBuffer(b.Width, b.Height, b.Channels)
	for i, v := range b.Pix {
		out.Pix[i] = table[v]
	}
	return out
}

// Floats returns the samples of a buffer as float64 values.
func (b Buffer) Floats() []float64 {
	out := make([]float64, len(b.Pix))
	for i, v := range b.Pix {
		out[i] = float64(v)
	}
	return out
}

// BufferFromFloats rounds and clips values into an 8-bit buffer.
func BufferFromFloats(width, height, channels int, values []float64) Buffer {
	out := NewBuffer(width, height, channels)
	for i, v := range values {
		out.Pix[i] = ClampUint8(v)
	}
	return out
}

// ClampUint8 rounds v to the nearest integer and clips it to [0, 255].
// NaN maps to 0.
func ClampUint8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// ClampInt constrains an integer value to the range [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (b Buffer) validate(kind Kind) error {
	if b.Pix == nil {
		return fmt.Errorf("%w: nil pixel data", ErrInvalidBuffer)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: non-positive size %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	}
	if b.Channels != kind.Channels() {
		return fmt.Errorf("%w: %s image needs %d channels, buffer has %d",
			ErrInvalidBuffer, kind, kind.Channels(), b.Channels)
	}
	if len(b.Pix) != b.Width*b.Height*b.Channels {
		return fmt.Errorf("%w: %d samples for %dx%dx%d",
			ErrInvalidBuffer, len(b.Pix), b.Width, b.Height, b.Channels)
	}
	if kind == KindBinary {
		for i, v := range b.Pix {
			if v != 0 && v != 255 {
				return fmt.Errorf("%w: binary sample %d at offset %d", ErrInvalidBuffer, v, i)
			}
		}
	}
	return nil
}

// Spectrum is the complex 2-D transform of an image, quadrant-shifted so the
// DC term sits at (Width/2, Height/2). Re and Im are row-major.
type Spectrum struct {
	Width  int
	Height int
	Re     []float64
	Im     []float64
}

// Clone returns a deep copy.
func (s Spectrum) Clone() Spectrum {
	re := make([]float64, len(s.Re))
	im := make([]float64, len(s.Im))
	copy(re, s.Re)
	copy(im, s.Im)
	return Spectrum{Width: s.Width, Height: s.Height, Re: re, Im: im}
}
