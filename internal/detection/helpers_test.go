package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// binaryCanvas returns a black w×h buffer to draw test shapes into.
func binaryCanvas(w, h int) imaging.Buffer {
	return imaging.NewBuffer(w, h, 1)
}

func setWhite(b imaging.Buffer, x, y int) {
	b.Pix[y*b.Width+x] = 255
}

func fillRect(b imaging.Buffer, x1, y1, x2, y2 int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			setWhite(b, x, y)
		}
	}
}

func outlineRect(b imaging.Buffer, x1, y1, x2, y2 int) {
	for x := x1; x <= x2; x++ {
		setWhite(b, x, y1)
		setWhite(b, x, y2)
	}
	for y := y1; y <= y2; y++ {
		setWhite(b, x1, y)
		setWhite(b, x2, y)
	}
}

func newBinary(t *testing.T, b imaging.Buffer) *imaging.Image {
	t.Helper()
	img, err := imaging.New(b, imaging.KindBinary, "shapes")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return img
}

// createDiscImage creates a gray image with a filled bright disc.
func createDiscImage(t *testing.T, width, height, cx, cy, radius int) *imaging.Image {
	t.Helper()
	src := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				src.SetGray(x, y, color.Gray{Y: 200})
			}
		}
	}
	img, err := imaging.FromImage(src, "disc")
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	return img
}
