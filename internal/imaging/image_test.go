package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		buf  Buffer
		kind Kind
	}{
		{"nil pixels", Buffer{Width: 2, Height: 2, Channels: 1}, KindGray},
		{"zero size", Buffer{Width: 0, Height: 2, Channels: 1, Pix: []uint8{}}, KindGray},
		{"short buffer", Buffer{Width: 2, Height: 2, Channels: 1, Pix: []uint8{1, 2, 3}}, KindGray},
		{"gray with three channels", Buffer{Width: 1, Height: 1, Channels: 3, Pix: []uint8{1, 2, 3}}, KindGray},
		{"color with one channel", Buffer{Width: 1, Height: 1, Channels: 1, Pix: []uint8{1}}, KindColor},
		{"binary with gray value", Buffer{Width: 2, Height: 1, Channels: 1, Pix: []uint8{0, 128}}, KindBinary},
		{"frequency", Buffer{Width: 1, Height: 1, Channels: 1, Pix: []uint8{0}}, KindFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.buf, tt.kind, "x")
			if !errors.Is(err, ErrInvalidBuffer) {
				t.Errorf("New: got %v, want ErrInvalidBuffer", err)
			}
		})
	}
}

func TestNew_CopiesBuffer(t *testing.T) {
	buf := Buffer{Width: 2, Height: 1, Channels: 1, Pix: []uint8{10, 20}}
	img, err := New(buf, KindGray, "g")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	buf.Pix[0] = 99

	v, _ := img.At(0, 0)
	if v[0] != 10 {
		t.Errorf("image shares caller buffer: got %d, want 10", v[0])
	}

	out := img.Buffer()
	out.Pix[1] = 99
	v, _ = img.At(1, 0)
	if v[0] != 20 {
		t.Errorf("Buffer() returned shared storage: got %d, want 20", v[0])
	}
}

func TestNew_Log(t *testing.T) {
	img := grayImage(t, [][]uint8{{1, 2}, {3, 4}})
	if img.Log().Len() != 1 {
		t.Fatalf("log length: got %d, want 1", img.Log().Len())
	}
	if got := img.Log().Last(); got != "new(kind=gray, size=2x2)" {
		t.Errorf("log entry: got %q", got)
	}
}

func TestFromImage(t *testing.T) {
	t.Run("gray", func(t *testing.T) {
		g := image.NewGray(image.Rect(0, 0, 3, 2))
		g.SetGray(1, 1, color.Gray{Y: 77})
		img, err := FromImage(g, "g")
		if err != nil {
			t.Fatalf("FromImage failed: %v", err)
		}
		if img.Kind() != KindGray || img.Channels() != 1 {
			t.Errorf("got kind %s with %d channels, want gray/1", img.Kind(), img.Channels())
		}
		v, _ := img.At(1, 1)
		if v[0] != 77 {
			t.Errorf("pixel: got %d, want 77", v[0])
		}
	})

	t.Run("color order", func(t *testing.T) {
		img := solidImage(t, 2, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		if img.Kind() != KindColor {
			t.Fatalf("kind: got %s, want color", img.Kind())
		}
		if got := bgrAt(t, img, 1, 1); got != (BGR{30, 20, 10}) {
			t.Errorf("pixel: got %v, want B,G,R = 30,20,10", got)
		}
	})

	t.Run("nil", func(t *testing.T) {
		if _, err := FromImage(nil, "x"); !errors.Is(err, ErrInvalidBuffer) {
			t.Errorf("got %v, want ErrInvalidBuffer", err)
		}
	})
}

func TestBlank(t *testing.T) {
	img, err := Blank(4, 3, color.RGBA{R: 255, A: 255}, "canvas")
	if err != nil {
		t.Fatalf("Blank failed: %v", err)
	}
	if img.Width() != 4 || img.Height() != 3 || img.Kind() != KindColor {
		t.Errorf("got %dx%d %s", img.Width(), img.Height(), img.Kind())
	}
	if got := bgrAt(t, img, 3, 2); got != (BGR{0, 0, 255}) {
		t.Errorf("fill: got %v", got)
	}
	if got := img.Log().Last(); got != "blank(size=4x3, fill=#FF0000)" {
		t.Errorf("log entry: got %q", got)
	}

	if _, err := Blank(0, 3, color.Black, "x"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero width: got %v, want ErrInvalidArgument", err)
	}
}

func TestDerive_LogIsolation(t *testing.T) {
	src := grayImage(t, [][]uint8{{1}})
	a := Derive(src, KindGray, src.Buffer(), "a()")
	b := Derive(src, KindGray, src.Buffer(), "b()")
	a2 := Derive(a, KindGray, a.Buffer(), "a2()")

	if diff := cmp.Diff([]string{"new(kind=gray, size=1x1)"}, src.Log().Entries()); diff != "" {
		t.Errorf("source log changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"new(kind=gray, size=1x1)", "b()"}, b.Log().Entries()); diff != "" {
		t.Errorf("sibling log (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"new(kind=gray, size=1x1)", "a()", "a2()"}, a2.Log().Entries()); diff != "" {
		t.Errorf("chained log (-want +got):\n%s", diff)
	}
}

func TestAtSet(t *testing.T) {
	img := binaryImage(t, [][]uint8{{0, 255}, {255, 0}})

	if _, err := img.At(2, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("At out of bounds: got %v", err)
	}
	if err := img.Set(-1, 0, 255); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Set out of bounds: got %v", err)
	}
	if err := img.Set(0, 0, 128); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Set non-binary value: got %v", err)
	}
	if err := img.Set(0, 0, 255, 255); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Set wrong channel count: got %v", err)
	}
	if err := img.Set(0, 0, 255); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, _ := img.At(0, 0)
	if v[0] != 255 {
		t.Errorf("Set did not mutate the instance: got %d", v[0])
	}
	if img.Log().Len() != 1 {
		t.Errorf("Set must not extend the log, got %d entries", img.Log().Len())
	}
}

func TestSet_Frequency(t *testing.T) {
	src := grayImage(t, [][]uint8{{1, 2}})
	mag := NewBuffer(2, 1, 1)
	spec := Spectrum{Width: 2, Height: 1, Re: make([]float64, 2), Im: make([]float64, 2)}
	freq := NewFrequency(src, mag, spec, "dft()")

	if err := freq.Set(0, 0, 1); !errors.Is(err, ErrPrecondition) {
		t.Errorf("Set on frequency image: got %v, want ErrPrecondition", err)
	}
	if _, ok := freq.Spectrum(); !ok {
		t.Error("frequency image has no spectrum")
	}
	if _, ok := src.Spectrum(); ok {
		t.Error("gray image reports a spectrum")
	}
}

func TestToImage(t *testing.T) {
	gray := grayImage(t, [][]uint8{{5, 6}})
	if _, ok := gray.ToImage().(*image.Gray); !ok {
		t.Errorf("gray ToImage: got %T, want *image.Gray", gray.ToImage())
	}

	c := solidImage(t, 1, 1, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	n, ok := c.ToImage().(*image.NRGBA)
	if !ok {
		t.Fatalf("color ToImage: got %T, want *image.NRGBA", c.ToImage())
	}
	if got := n.NRGBAAt(0, 0); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("pixel: got %v", got)
	}
}
