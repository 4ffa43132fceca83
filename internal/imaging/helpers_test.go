package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// solidImage builds a Color TypedImage filled with c.
func solidImage(t *testing.T, width, height int, c color.Color) *Image {
	t.Helper()
	img, err := FromImage(createInMemoryImage(width, height, c), "solid")
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	return img
}

// patternImage builds a Color TypedImage with red, green, blue and white
// quadrants.
func patternImage(t *testing.T, width, height int) *Image {
	t.Helper()
	img, err := FromImage(createPatternImage(width, height), "pattern")
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	return img
}

// grayImage builds a Gray TypedImage from rows of samples.
func grayImage(t *testing.T, rows [][]uint8) *Image {
	t.Helper()
	return singleChannel(t, rows, KindGray)
}

// binaryImage builds a Binary TypedImage from rows of samples.
func binaryImage(t *testing.T, rows [][]uint8) *Image {
	t.Helper()
	return singleChannel(t, rows, KindBinary)
}

func singleChannel(t *testing.T, rows [][]uint8, kind Kind) *Image {
	t.Helper()
	h := len(rows)
	w := len(rows[0])
	buf := NewBuffer(w, h, 1)
	for y, row := range rows {
		copy(buf.Pix[y*w:], row)
	}
	img, err := New(buf, kind, kind.String())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return img
}

// uniformGray builds a w×h Gray image filled with v.
func uniformGray(t *testing.T, w, h int, v uint8) *Image {
	t.Helper()
	buf := NewBuffer(w, h, 1)
	for i := range buf.Pix {
		buf.Pix[i] = v
	}
	img, err := New(buf, KindGray, "gray")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return img
}

// bgrAt returns pixel (x, y) of a Color image.
func bgrAt(t *testing.T, img *Image, x, y int) BGR {
	t.Helper()
	v, err := img.At(x, y)
	if err != nil {
		t.Fatalf("At(%d,%d) failed: %v", x, y, err)
	}
	if len(v) != 3 {
		t.Fatalf("At(%d,%d): got %d channels, want 3", x, y, len(v))
	}
	return BGR{v[0], v[1], v[2]}
}
