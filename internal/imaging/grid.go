package imaging

import (
	"fmt"
	"image/color"
)

// GridOverlay draws a coordinate grid every spacing pixels on a Color copy
// of img. With showCoordinates set, each intersection is labeled "x,y".
// gridColorHex defaults to semi-transparent red when empty or malformed.
func GridOverlay(img *Image, spacing int, showCoordinates bool, gridColorHex string, labelSize float64) (*Image, error) {
	if err := RequireImage(img, "grid overlay"); err != nil {
		return nil, err
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("%w: grid spacing %d", ErrInvalidArgument, spacing)
	}

	gridColor, err := ParseHexColor(gridColorHex)
	if err != nil {
		gridColor = color.RGBA{255, 0, 0, 128}
	}
	// Blend the grid over the pixels instead of replacing them.
	c := NewCanvas(img)
	width, height := img.Width(), img.Height()
	alpha := float64(gridColor.A) / 255
	blend := func(x, y int) {
		i := c.img.PixOffset(x, y)
		p := c.img.Pix[i : i+3]
		p[0] = ClampUint8(float64(p[0])*(1-alpha) + float64(gridColor.R)*alpha)
		p[1] = ClampUint8(float64(p[1])*(1-alpha) + float64(gridColor.G)*alpha)
		p[2] = ClampUint8(float64(p[2])*(1-alpha) + float64(gridColor.B)*alpha)
	}

	for x := spacing; x < width; x += spacing {
		for y := 0; y < height; y++ {
			blend(x, y)
		}
	}
	for y := spacing; y < height; y += spacing {
		for x := 0; x < width; x++ {
			if x%spacing != 0 {
				blend(x, y)
			}
		}
	}

	if showCoordinates {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}

		for y := spacing; y < height; y += spacing {
			for x := spacing; x < width; x += spacing {
				if err := c.Label(x+2, y+2, fmt.Sprintf("%d,%d", x, y), labelSize, labelColor, bgColor); err != nil {
					return nil, err
				}
			}
		}
	}

	entry := Entry("grid", "spacing", spacing, "coordinates", showCoordinates,
		"color", fmt.Sprintf("#%02X%02X%02X%02X", gridColor.R, gridColor.G, gridColor.B, gridColor.A))
	return Derive(img, KindColor, c.Buffer(), entry), nil
}
