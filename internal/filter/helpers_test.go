package filter

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

func singleChannel(t *testing.T, rows [][]uint8, kind imaging.Kind) *imaging.Image {
	t.Helper()
	h, w := len(rows), len(rows[0])
	buf := imaging.NewBuffer(w, h, 1)
	for y, row := range rows {
		copy(buf.Pix[y*w:], row)
	}
	img, err := imaging.New(buf, kind, kind.String())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return img
}

func grayImage(t *testing.T, rows [][]uint8) *imaging.Image {
	t.Helper()
	return singleChannel(t, rows, imaging.KindGray)
}

func binaryImage(t *testing.T, rows [][]uint8) *imaging.Image {
	t.Helper()
	return singleChannel(t, rows, imaging.KindBinary)
}

// filled builds a w×h single-channel image of the given kind filled with v.
func filled(t *testing.T, w, h int, v uint8, kind imaging.Kind) *imaging.Image {
	t.Helper()
	rows := make([][]uint8, h)
	for y := range rows {
		rows[y] = make([]uint8, w)
		for x := range rows[y] {
			rows[y][x] = v
		}
	}
	return singleChannel(t, rows, kind)
}

// rampImage builds a Gray image whose samples increase left to right.
func rampImage(t *testing.T, w, h int) *imaging.Image {
	t.Helper()
	rows := make([][]uint8, h)
	for y := range rows {
		rows[y] = make([]uint8, w)
		for x := range rows[y] {
			rows[y][x] = uint8(x * 255 / max(w-1, 1))
		}
	}
	return grayImage(t, rows)
}

func colorImage(t *testing.T, w, h int, c color.Color) *imaging.Image {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.Set(x, y, c)
		}
	}
	img, err := imaging.FromImage(src, "color")
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	return img
}

// pixels returns the samples of a single-channel image as rows.
func pixels(img *imaging.Image) [][]uint8 {
	b := img.Buffer()
	rows := make([][]uint8, b.Height)
	for y := range rows {
		rows[y] = append([]uint8(nil), b.Pix[y*b.Width*b.Channels:(y+1)*b.Width*b.Channels]...)
	}
	return rows
}

func allEqual(img *imaging.Image, v uint8) bool {
	for _, p := range img.Buffer().Pix {
		if p != v {
			return false
		}
	}
	return true
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
