package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// Image is a TypedImage: an owned pixel buffer tagged with a Kind, a display
// name and a provenance log.
//
// Every pipeline operation returns a new Image and leaves its inputs
// untouched. The only mutating methods are the point accessors Set, which
// exist for explicit pixel editing on the same instance.
//
// Images of KindFrequency additionally carry the complex spectrum produced by
// the forward transform; the buffer then holds the normalized log-magnitude.
type Image struct {
	kind     Kind
	name     string
	log      Log
	buf      Buffer
	spectrum *Spectrum
}

// New constructs an image from a decoded buffer.
//
// Parameters:
//   - buf: pixel data. The buffer is copied; the caller keeps ownership of buf.Pix.
//   - kind: Color, Gray or Binary. Frequency images are only produced by the
//     forward frequency transform.
//   - name: display name propagated to derived images.
//
// Returns ErrInvalidBuffer when the buffer is empty, its sample count does not
// match its dimensions, its channel count disagrees with kind, or a Binary
// buffer holds a value other than 0 or 255.
func New(buf Buffer, kind Kind, name string) (*Image, error) {
	if kind == KindFrequency {
		return nil, fmt.Errorf("%w: frequency images cannot be constructed from a plain buffer", ErrInvalidBuffer)
	}
	if kind.Channels() == 0 {
		return nil, fmt.Errorf("%w: unknown kind %s", ErrInvalidBuffer, kind)
	}
	if err := buf.validate(kind); err != nil {
		return nil, err
	}
	entry := fmt.Sprintf("new(kind=%s, size=%dx%d)", kind, buf.Width, buf.Height)
	return &Image{kind: kind, name: name, log: NewLog(entry), buf: buf.Clone()}, nil
}

// FromImage converts a decoded image.Image. 8-bit and 16-bit gray images
// become KindGray; every other color model becomes KindColor.
func FromImage(src image.Image, name string) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidBuffer)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty image bounds %v", ErrInvalidBuffer, b)
	}

	switch src.(type) {
	case *image.Gray, *image.Gray16:
		buf := NewBuffer(w, h, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g := color.GrayModel.Convert(src.At(x+b.Min.X, y+b.Min.Y)).(color.Gray)
				buf.Pix[y*w+x] = g.Y
			}
		}
		return New(buf, KindGray, name)
	}

	buf := NewBuffer(w, h, 3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(x+b.Min.X, y+b.Min.Y)).(color.NRGBA)
			i := (y*w + x) * 3
			buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = c.B, c.G, c.R
		}
	}
	return New(buf, KindColor, name)
}

// Blank creates a Color canvas of the given size filled with one color.
func Blank(width, height int, fill color.Color, name string) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: blank canvas size %dx%d", ErrInvalidArgument, width, height)
	}
	bgr := ToBGR(fill)
	buf := NewBuffer(width, height, 3)
	for i := 0; i < width*height; i++ {
		copy(buf.Pix[i*3:i*3+3], bgr[:])
	}
	entry := fmt.Sprintf("blank(size=%dx%d, fill=%s)", width, height, bgr)
	return &Image{kind: KindColor, name: name, log: NewLog(entry), buf: buf}, nil
}

// Derive builds the result of an operation on src: same name, src's log plus
// entry. The caller hands over ownership of buf and guarantees that its
// channel count matches kind.
func Derive(src *Image, kind Kind, buf Buffer, entry string) *Image {
	return &Image{kind: kind, name: src.name, log: src.log.With(entry), buf: buf}
}

// DeriveNamed is Derive for operations that recombine names, such as
// two-operand arithmetic.
func DeriveNamed(name string, log Log, kind Kind, buf Buffer, entry string) *Image {
	return &Image{kind: kind, name: name, log: log.With(entry), buf: buf}
}

// NewFrequency builds a KindFrequency result carrying a spectrum and its
// display magnitude.
func NewFrequency(src *Image, magnitude Buffer, spectrum Spectrum, entry string) *Image {
	return &Image{
		kind:     KindFrequency,
		name:     src.name,
		log:      src.log.With(entry),
		buf:      magnitude,
		spectrum: &spectrum,
	}
}

// Kind returns the image kind.
func (img *Image) Kind() Kind { return img.kind }

// Name returns the display name.
func (img *Image) Name() string { return img.name }

// Log returns the provenance log. Log values are immutable.
func (img *Image) Log() Log { return img.log }

// Width returns the width in pixels.
func (img *Image) Width() int { return img.buf.Width }

// Height returns the height in pixels.
func (img *Image) Height() int { return img.buf.Height }

// Channels returns the channel count of the pixel buffer.
func (img *Image) Channels() int { return img.buf.Channels }

// Bounds returns the image rectangle anchored at the origin.
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.buf.Width, img.buf.Height)
}

// Buffer returns a copy of the pixel buffer. For Frequency images this is the
// normalized magnitude.
func (img *Image) Buffer() Buffer { return img.buf.Clone() }

// Spectrum returns a copy of the complex spectrum of a Frequency image.
func (img *Image) Spectrum() (Spectrum, bool) {
	if img.spectrum == nil {
		return Spectrum{}, false
	}
	return img.spectrum.Clone(), true
}

// At returns the samples of pixel (x, y), one per channel.
func (img *Image) At(x, y int) ([]uint8, error) {
	if !img.buf.Inside(x, y) {
		return nil, fmt.Errorf("%w: pixel (%d,%d) outside %dx%d image",
			ErrInvalidArgument, x, y, img.buf.Width, img.buf.Height)
	}
	i := img.buf.Index(x, y, 0)
	return append([]uint8(nil), img.buf.Pix[i:i+img.buf.Channels]...), nil
}

// Set overwrites pixel (x, y) in place. Exactly one value per channel must be
// supplied; Binary images accept only 0 and 255. Frequency images cannot be
// edited because the magnitude would no longer describe the spectrum.
func (img *Image) Set(x, y int, values ...uint8) error {
	if img.kind == KindFrequency {
		return &KindError{Op: "set pixel", Got: img.kind, Want: []Kind{KindColor, KindGray, KindBinary}}
	}
	if !img.buf.Inside(x, y) {
		return fmt.Errorf("%w: pixel (%d,%d) outside %dx%d image",
			ErrInvalidArgument, x, y, img.buf.Width, img.buf.Height)
	}
	if len(values) != img.buf.Channels {
		return fmt.Errorf("%w: %d values for %d channels", ErrInvalidArgument, len(values), img.buf.Channels)
	}
	if img.kind == KindBinary && values[0] != 0 && values[0] != 255 {
		return fmt.Errorf("%w: binary pixel value %d", ErrInvalidArgument, values[0])
	}
	copy(img.buf.Pix[img.buf.Index(x, y, 0):], values)
	return nil
}

// ToImage converts to a standard library image for encoding or display.
// Single-channel kinds become *image.Gray, Color becomes *image.NRGBA.
func (img *Image) ToImage() image.Image {
	return BufferToImage(img.buf)
}

// BufferToImage hands a buffer to image libraries: one channel becomes
// *image.Gray, three channels (B,G,R) become an opaque *image.NRGBA.
func BufferToImage(buf Buffer) image.Image {
	rect := image.Rect(0, 0, buf.Width, buf.Height)
	if buf.Channels == 1 {
		g := image.NewGray(rect)
		copy(g.Pix, buf.Pix)
		return g
	}
	out := image.NewNRGBA(rect)
	for i := 0; i < buf.Width*buf.Height; i++ {
		out.Pix[i*4+0] = buf.Pix[i*3+2]
		out.Pix[i*4+1] = buf.Pix[i*3+1]
		out.Pix[i*4+2] = buf.Pix[i*3+0]
		out.Pix[i*4+3] = 255
	}
	return out
}

// BufferFromImage reads back a library result. channels selects 1 (red plane
// of a replicated gray image) or 3 (B,G,R).
func BufferFromImage(src image.Image, channels int) Buffer {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewBuffer(w, h, channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(x+b.Min.X, y+b.Min.Y)).(color.NRGBA)
			i := (y*w + x) * channels
			if channels == 1 {
				out.Pix[i] = c.R
				continue
			}
			out.Pix[i], out.Pix[i+1], out.Pix[i+2] = c.B, c.G, c.R
		}
	}
	return out
}
