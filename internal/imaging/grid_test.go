package imaging

import (
	"bytes"
	"errors"
	"image/color"
	"testing"
)

func TestGridOverlay_GridLines(t *testing.T) {
	img := solidImage(t, 100, 100, color.RGBA{0, 0, 0, 255})

	out, err := GridOverlay(img, 25, false, "#FF0000FF", 0)
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	if out.Width() != 100 || out.Height() != 100 || out.Kind() != KindColor {
		t.Fatalf("got %dx%d %s", out.Width(), out.Height(), out.Kind())
	}

	if got := bgrAt(t, out, 25, 50); got != (BGR{0, 0, 255}) {
		t.Errorf("grid line at (25,50): got %v, want red", got)
	}
	if got := bgrAt(t, out, 50, 75); got != (BGR{0, 0, 255}) {
		t.Errorf("grid line at (50,75): got %v, want red", got)
	}
	if got := bgrAt(t, out, 15, 15); got != (BGR{0, 0, 0}) {
		t.Errorf("background at (15,15): got %v, want black", got)
	}
}

func TestGridOverlay_DefaultColor(t *testing.T) {
	img := solidImage(t, 50, 50, color.RGBA{0, 0, 0, 255})

	for _, hex := range []string{"", "not-a-color"} {
		out, err := GridOverlay(img, 10, false, hex, 0)
		if err != nil {
			t.Fatalf("GridOverlay(%q) failed: %v", hex, err)
		}
		got := bgrAt(t, out, 10, 5)
		if got[2] != 128 || got[1] != 0 || got[0] != 0 {
			t.Errorf("%q: grid pixel got %v, want half-transparent red over black", hex, got)
		}
	}
}

func TestGridOverlay_WithCoordinates(t *testing.T) {
	img := solidImage(t, 100, 100, color.RGBA{128, 128, 128, 255})

	plain, err := GridOverlay(img, 50, false, "#FF0000", 0)
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	labeled, err := GridOverlay(img, 50, true, "#FF0000", 0)
	if err != nil {
		t.Fatalf("GridOverlay with coordinates failed: %v", err)
	}
	if bytes.Equal(plain.Buffer().Pix, labeled.Buffer().Pix) {
		t.Error("coordinate labels did not change the image")
	}
}

func TestGridOverlay_InvalidSpacing(t *testing.T) {
	img := solidImage(t, 10, 10, color.Black)
	if _, err := GridOverlay(img, 0, false, "", 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}
}
