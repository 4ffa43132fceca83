package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestCanvas_Primitives(t *testing.T) {
	src := solidImage(t, 20, 20, color.Black)
	white := color.RGBA{255, 255, 255, 255}

	c := NewCanvas(src)
	c.Line(0, 0, 19, 19, white)
	c.Circle(10, 10, 5, white)
	c.Rect(image.Rect(2, 12, 8, 18), white)
	c.Line(-10, 1, 30, 1, white) // clipped
	buf := c.Buffer()

	isWhite := func(x, y int) bool { return buf.At(x, y, 0) == 255 }

	for _, p := range []image.Point{
		{0, 0}, {5, 5}, {19, 19}, // diagonal
		{15, 10}, {10, 5}, {5, 10}, {10, 15}, // circle extremes
		{2, 12}, {7, 12}, {7, 17}, {2, 17}, // rectangle corners
		{0, 1}, {19, 1}, // clipped line
	} {
		if !isWhite(p.X, p.Y) {
			t.Errorf("pixel %v not drawn", p)
		}
	}
	if isWhite(4, 15) {
		t.Error("rectangle interior was filled")
	}
	if bgrAt(t, src, 5, 5) != (BGR{}) {
		t.Error("canvas drew into the source image")
	}
}

func TestCanvas_Label(t *testing.T) {
	src := solidImage(t, 60, 30, color.Black)
	c := NewCanvas(src)
	if err := c.Label(2, 2, "42", 12, color.White, color.Black); err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	buf := c.Buffer()

	lit := 0
	for _, v := range buf.Pix {
		if v > 128 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("label rendered no pixels")
	}

	// Labels partly outside the canvas are clipped, not rejected.
	if err := c.Label(55, 25, "123", 0, color.White, color.Black); err != nil {
		t.Errorf("clipped label: %v", err)
	}
}

func TestCanvas_Fill(t *testing.T) {
	src := grayImage(t, [][]uint8{{0, 0}, {0, 0}})
	c := NewCanvas(src)
	c.Fill(func(x, y int) color.Color {
		if x == 1 {
			return color.RGBA{R: 255, A: 255}
		}
		return nil
	})
	buf := c.Buffer()
	if buf.At(1, 0, 2) != 255 || buf.At(0, 0, 2) != 0 {
		t.Errorf("fill mask not respected: %v", buf.Pix)
	}
}
