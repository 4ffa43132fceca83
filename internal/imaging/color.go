package imaging

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// BGR is an 8-bit color in the channel order of Color buffers.
type BGR [3]uint8

func (c BGR) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c[2], c[1], c[0])
}

// RGBA converts to a standard library color.
func (c BGR) RGBA() color.RGBA {
	return color.RGBA{R: c[2], G: c[1], B: c[0], A: 255}
}

// ToBGR converts any color.Color, dropping alpha.
func ToBGR(c color.Color) BGR {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return BGR{n.B, n.G, n.R}
}

// ParseHexColor parses a hex color string like "#FF0000" or "#FF000080".
// The leading '#' is optional.
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("%w: empty color string", ErrInvalidArgument)
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: color %q: %v", ErrInvalidArgument, hex, err)
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: color %q: %v", ErrInvalidArgument, hex, err)
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("%w: invalid hex color length %d", ErrInvalidArgument, len(hex))
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult describes one pixel of a TypedImage in several notations.
//
// For single-channel kinds the R, G and B components are all equal to the
// sample; Values always holds the raw samples in buffer order.
type ColorResult struct {
	Kind   string   `json:"kind"`
	Values []int    `json:"values"`
	Hex    string   `json:"hex"`
	RGB    RGBColor `json:"rgb"`
	HSL    HSLColor `json:"hsl"`
}

// SampleColor reads pixel (x, y) of img.
//
// Returns ErrInvalidArgument if the coordinates are outside the image.
func SampleColor(img *Image, x, y int) (*ColorResult, error) {
	values, err := img.At(x, y)
	if err != nil {
		return nil, err
	}
	ints := make([]int, len(values))
	for i, v := range values {
		ints[i] = int(v)
	}
	var r, g, b uint8
	if len(values) == 3 {
		b, g, r = values[0], values[1], values[2]
	} else {
		r, g, b = values[0], values[0], values[0]
	}
	h, s, l := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hsl()
	return &ColorResult{
		Kind:   img.kind.String(),
		Values: ints,
		Hex:    fmt.Sprintf("#%02X%02X%02X", r, g, b),
		RGB:    RGBColor{R: r, G: g, B: b},
		HSL:    HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string  `json:"hex"`
	Percentage float64 `json:"percentage"`
	Color      BGR     `json:"-"`
}

// DominantColors extracts the count most common colors of an image region.
//
// Colors are quantized by dividing each component by 16 and rounding down, so
// colors within 16 units of each other per component are grouped together.
// An empty region means the whole image. Results are sorted by frequency,
// most common first; ties are broken by hex value so the order is stable.
func DominantColors(img *Image, count int, region image.Rectangle) ([]ColorFrequency, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: dominant color count %d", ErrInvalidArgument, count)
	}
	bounds := img.Bounds()
	if !region.Empty() {
		bounds = region.Intersect(bounds)
	}
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: region %v outside image", ErrInvalidArgument, region)
	}

	counts := make(map[BGR]int)
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var c BGR
			if img.buf.Channels == 3 {
				i := img.buf.Index(x, y, 0)
				c = BGR{img.buf.Pix[i], img.buf.Pix[i+1], img.buf.Pix[i+2]}
			} else {
				v := img.buf.At(x, y, 0)
				c = BGR{v, v, v}
			}
			for k := range c {
				c[k] = c[k] / 16 * 16
			}
			counts[c]++
			total++
		}
	}

	colors := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        c.String(),
			Percentage: float64(n) / float64(total) * 100,
			Color:      c,
		})
	}
	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})
	if len(colors) > count {
		colors = colors[:count]
	}
	return colors, nil
}
