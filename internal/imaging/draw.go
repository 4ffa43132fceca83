package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultLabelSize is the font size in points used for overlay labels when
// the caller does not configure one.
const DefaultLabelSize = 10.0

var (
	labelFontOnce sync.Once
	labelFont     *truetype.Font
	labelFontErr  error
)

func loadLabelFont() (*truetype.Font, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = freetype.ParseFont(goregular.TTF)
	})
	return labelFont, labelFontErr
}

// Canvas is a Color drawing surface used to render detection and labeling
// overlays. It is not safe for concurrent use.
type Canvas struct {
	img *image.NRGBA
}

// NewCanvas starts a canvas from a Color copy of img (Gray and Binary are
// replicated into three channels).
func NewCanvas(img *Image) *Canvas {
	return &Canvas{img: BufferToImage(ColorBuffer(img)).(*image.NRGBA)}
}

// Buffer returns the canvas contents as a B,G,R buffer.
func (c *Canvas) Buffer() Buffer {
	return BufferFromImage(c.img, 3)
}

// Set paints one pixel, ignoring coordinates outside the canvas.
func (c *Canvas) Set(x, y int, col color.Color) {
	if image.Pt(x, y).In(c.img.Rect) {
		c.img.Set(x, y, col)
	}
}

// Line draws a one-pixel line with Bresenham's algorithm. Endpoints may lie
// outside the canvas; off-canvas pixels are skipped.
func (c *Canvas) Line(x0, y0, x1, y1 int, col color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Rect draws the outline of r. Max is exclusive, as for image.Rectangle.
func (c *Canvas) Rect(r image.Rectangle, col color.Color) {
	if r.Empty() {
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	c.Line(x0, y0, x1, y0, col)
	c.Line(x1, y0, x1, y1, col)
	c.Line(x1, y1, x0, y1, col)
	c.Line(x0, y1, x0, y0, col)
}

// Circle draws a circle outline with the midpoint algorithm.
func (c *Canvas) Circle(cx, cy, r int, col color.Color) {
	if r <= 0 {
		c.Set(cx, cy, col)
		return
	}
	x, y := r, 0
	d := 1 - r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Set(cx+p[0], cy+p[1], col)
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// Fill visits every pixel once and paints it with the color returned by
// paint; a nil color leaves the pixel unchanged.
func (c *Canvas) Fill(paint func(x, y int) color.Color) {
	b := c.img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if col := paint(x, y); col != nil {
				c.img.Set(x, y, col)
			}
		}
	}
}

// Label renders text with its top-left corner at (x, y) on a filled
// background box, using the Go regular font at size points.
func (c *Canvas) Label(x, y int, text string, size float64, fg, bg color.Color) error {
	if size <= 0 {
		size = DefaultLabelSize
	}
	f, err := loadLabelFont()
	if err != nil {
		return fmt.Errorf("failed to parse label font: %w", err)
	}

	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	defer face.Close()
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil()
	width := font.MeasureString(face, text).Ceil()

	box := image.Rect(x-1, y-1, x+width+1, y+height+1).Intersect(c.img.Rect)
	draw.Draw(c.img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(size)
	ctx.SetClip(c.img.Bounds())
	ctx.SetDst(c.img)
	ctx.SetSrc(image.NewUniform(fg))
	ctx.SetHinting(font.HintingFull)
	if _, err := ctx.DrawString(text, freetype.Pt(x, y+ascent)); err != nil {
		return fmt.Errorf("failed to draw label %q: %w", text, err)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
