package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestSampleColor(t *testing.T) {
	img := solidImage(t, 100, 100, color.RGBA{255, 128, 64, 255})

	result, err := SampleColor(img, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGB.R != 255 || result.RGB.G != 128 || result.RGB.B != 64 {
		t.Errorf("RGB: got (%d,%d,%d), want (255,128,64)", result.RGB.R, result.RGB.G, result.RGB.B)
	}
	if len(result.Values) != 3 || result.Values[0] != 64 || result.Values[2] != 255 {
		t.Errorf("Values: got %v, want B,G,R order", result.Values)
	}
	if result.Kind != "color" {
		t.Errorf("Kind: got %s", result.Kind)
	}
}

func TestSampleColor_HSL(t *testing.T) {
	img := solidImage(t, 1, 1, color.RGBA{255, 0, 0, 255})
	result, err := SampleColor(img, 0, 0)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.HSL != (HSLColor{H: 0, S: 100, L: 50}) {
		t.Errorf("HSL of red: got %+v, want {0 100 50}", result.HSL)
	}
}

func TestSampleColor_Gray(t *testing.T) {
	img := grayImage(t, [][]uint8{{0, 200}})
	result, err := SampleColor(img, 1, 0)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.Hex != "#C8C8C8" || len(result.Values) != 1 {
		t.Errorf("got hex %s values %v", result.Hex, result.Values)
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := solidImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x too large", 100, 50},
		{"y too large", 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(img, tt.x, tt.y)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("SampleColor(%d,%d): got %v, want ErrInvalidArgument", tt.x, tt.y, err)
			}
		})
	}
}

func TestDominantColors(t *testing.T) {
	img := patternImage(t, 100, 100)

	colors, err := DominantColors(img, 5, image.Rectangle{})
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}
	if len(colors) != 4 {
		t.Fatalf("got %d colors, want 4", len(colors))
	}
	for _, c := range colors {
		if c.Percentage != 25 {
			t.Errorf("%s: got %.2f%%, want 25%%", c.Hex, c.Percentage)
		}
	}
	// Equal shares are ordered by hex.
	if colors[0].Hex != "#0000F0" {
		t.Errorf("first color: got %s, want #0000F0", colors[0].Hex)
	}
}

func TestDominantColors_WithRegion(t *testing.T) {
	img := patternImage(t, 100, 100)

	colors, err := DominantColors(img, 5, image.Rect(0, 0, 50, 50))
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}
	if len(colors) != 1 || colors[0].Hex != "#F00000" || colors[0].Percentage != 100 {
		t.Errorf("top-left quadrant: got %+v, want 100%% #F00000", colors)
	}
}

func TestDominantColors_Errors(t *testing.T) {
	img := patternImage(t, 10, 10)
	if _, err := DominantColors(img, 0, image.Rectangle{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero count: got %v", err)
	}
	if _, err := DominantColors(img, 3, image.Rect(20, 20, 30, 30)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("region outside: got %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.RGBA{0, 0, 255, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("got %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHexColor failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBGR(t *testing.T) {
	c := ToBGR(color.RGBA{R: 1, G: 2, B: 3, A: 255})
	if c != (BGR{3, 2, 1}) {
		t.Errorf("ToBGR: got %v", c)
	}
	if c.String() != "#010203" {
		t.Errorf("String: got %s", c.String())
	}
	if c.RGBA() != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("RGBA: got %v", c.RGBA())
	}
}
