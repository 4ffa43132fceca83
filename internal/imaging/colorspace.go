package imaging

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// extractors maps a channel code to a function producing that channel, in the
// 8-bit convention, from an R,G,B triple.
var extractors = map[string]func(r, g, b uint8) uint8{
	"XYZ_X": func(r, g, b uint8) uint8 { x, _, _ := rgb(r, g, b).Xyz(); return ClampUint8(x * 255) },
	"XYZ_Y": func(r, g, b uint8) uint8 { _, y, _ := rgb(r, g, b).Xyz(); return ClampUint8(y * 255) },
	"XYZ_Z": func(r, g, b uint8) uint8 { _, _, z := rgb(r, g, b).Xyz(); return ClampUint8(z * 255) },

	"YCrCb_Y":  func(r, g, b uint8) uint8 { y, _, _ := color.RGBToYCbCr(r, g, b); return y },
	"YCrCb_Cr": func(r, g, b uint8) uint8 { _, _, cr := color.RGBToYCbCr(r, g, b); return cr },
	"YCrCb_Cb": func(r, g, b uint8) uint8 { _, cb, _ := color.RGBToYCbCr(r, g, b); return cb },

	"HSV_H": func(r, g, b uint8) uint8 { h, _, _ := rgb(r, g, b).Hsv(); return ClampUint8(h / 2) },
	"HSV_S": func(r, g, b uint8) uint8 { _, s, _ := rgb(r, g, b).Hsv(); return ClampUint8(s * 255) },
	"HSV_V": func(r, g, b uint8) uint8 { _, _, v := rgb(r, g, b).Hsv(); return ClampUint8(v * 255) },

	"HLS_H": func(r, g, b uint8) uint8 { h, _, _ := rgb(r, g, b).Hsl(); return ClampUint8(h / 2) },
	"HLS_L": func(r, g, b uint8) uint8 { _, _, l := rgb(r, g, b).Hsl(); return ClampUint8(l * 255) },
	"HLS_S": func(r, g, b uint8) uint8 { _, s, _ := rgb(r, g, b).Hsl(); return ClampUint8(s * 255) },

	// go-colorful scales L*a*b* and L*u*v* down by 100.
	"Lab_L": func(r, g, b uint8) uint8 { l, _, _ := rgb(r, g, b).Lab(); return ClampUint8(l * 255) },
	"Lab_a": func(r, g, b uint8) uint8 { _, a, _ := rgb(r, g, b).Lab(); return ClampUint8(a*100 + 128) },
	"Lab_b": func(r, g, b uint8) uint8 { _, _, bb := rgb(r, g, b).Lab(); return ClampUint8(bb*100 + 128) },

	"Luv_L": func(r, g, b uint8) uint8 { l, _, _ := rgb(r, g, b).Luv(); return ClampUint8(l * 255) },
	"Luv_u": func(r, g, b uint8) uint8 { _, u, _ := rgb(r, g, b).Luv(); return ClampUint8((u*100 + 134) * 255 / 354) },
	"Luv_v": func(r, g, b uint8) uint8 { _, _, v := rgb(r, g, b).Luv(); return ClampUint8((v*100 + 140) * 255 / 262) },

	"YUV_Y": func(r, g, b uint8) uint8 { return ClampUint8(lumaF(r, g, b)) },
	"YUV_U": func(r, g, b uint8) uint8 { return ClampUint8(0.492*(float64(b)-lumaF(r, g, b)) + 128) },
	"YUV_V": func(r, g, b uint8) uint8 { return ClampUint8(0.877*(float64(r)-lumaF(r, g, b)) + 128) },

	"BGR_B": func(r, g, b uint8) uint8 { return b },
	"BGR_G": func(r, g, b uint8) uint8 { return g },
	"BGR_R": func(r, g, b uint8) uint8 { return r },
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func lumaF(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// ExtractCodes lists the accepted channel codes in sorted order.
func ExtractCodes() []string {
	codes := make([]string, 0, len(extractors))
	for c := range extractors {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Extract converts a Color image to another colorspace and returns one of
// its planes as a Gray image. Codes are of the form SPACE_CHANNEL, for
// example "HSV_H" or "Lab_b"; see ExtractCodes.
//
// Planes are scaled to 8 bits the usual way: hue is halved, saturation,
// value and lightness fractions are multiplied by 255, the signed Lab
// components are offset by 128 and the Luv chroma components are shifted and
// scaled into 0-255.
func Extract(img *Image, code string) (*Image, error) {
	fn, ok := extractors[code]
	if !ok {
		return nil, fmt.Errorf("%w: unknown extraction code %q", ErrInvalidArgument, code)
	}
	if err := Require(img, "extract", KindColor); err != nil {
		return nil, err
	}

	src := img.buf
	out := NewBuffer(src.Width, src.Height, 1)
	for i := range out.Pix {
		b, g, r := src.Pix[i*3], src.Pix[i*3+1], src.Pix[i*3+2]
		out.Pix[i] = fn(r, g, b)
	}
	return Derive(img, KindGray, out, Entry("extract", "code", code)), nil
}

// Grayscale reduces an image to its luma plane. Non-Color input is copied;
// the result is Gray regardless of the input kind.
func Grayscale(img *Image) (*Image, error) {
	if err := RequireImage(img, "grayscale"); err != nil {
		return nil, err
	}
	return Derive(img, KindGray, Luma(img), Entry("grayscale")), nil
}

// Monotone renders the image in shades of a single tint: black maps to
// black, mid-gray to the tint and white to white.
func Monotone(img *Image, tint color.Color) (*Image, error) {
	if err := RequireImage(img, "monotone"); err != nil {
		return nil, err
	}
	t, _ := colorful.MakeColor(opaque(tint))
	black := colorful.Color{}
	white := colorful.Color{R: 1, G: 1, B: 1}

	var lut [256]BGR
	for v := range lut {
		f := float64(v) / 255
		var c colorful.Color
		if f < 0.5 {
			c = black.BlendRgb(t, f*2)
		} else {
			c = t.BlendRgb(white, f*2-1)
		}
		r, g, b := c.Clamped().RGB255()
		lut[v] = BGR{b, g, r}
	}

	out := lookupColor(Luma(img), &lut)
	return Derive(img, KindColor, out, Entry("monotone", "tint", ToBGR(tint))), nil
}

// Palette maps every pixel to the perceptually nearest color of the palette,
// measured as Euclidean distance in CIE L*a*b*.
func Palette(img *Image, colors []color.Color) (*Image, error) {
	if err := RequireImage(img, "palette"); err != nil {
		return nil, err
	}
	if len(colors) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidArgument)
	}
	pal := make([]colorful.Color, len(colors))
	hex := make([]string, len(colors))
	for i, c := range colors {
		pal[i], _ = colorful.MakeColor(opaque(c))
		hex[i] = ToBGR(c).String()
	}

	src := ColorBuffer(img)
	out := NewBuffer(src.Width, src.Height, 3)
	nearest := make(map[BGR]BGR)
	for i := 0; i < src.Width*src.Height; i++ {
		px := BGR{src.Pix[i*3], src.Pix[i*3+1], src.Pix[i*3+2]}
		m, ok := nearest[px]
		if !ok {
			c := rgb(px[2], px[1], px[0])
			best, bestDist := 0, c.DistanceLab(pal[0])
			for j := 1; j < len(pal); j++ {
				if d := c.DistanceLab(pal[j]); d < bestDist {
					best, bestDist = j, d
				}
			}
			r, g, b := pal[best].RGB255()
			m = BGR{b, g, r}
			nearest[px] = m
		}
		copy(out.Pix[i*3:i*3+3], m[:])
	}
	return Derive(img, KindColor, out, Entry("palette", "colors", strings.Join(hex, " "))), nil
}

// colorMaps holds the gradient stops of each named map, evenly spaced from
// intensity 0 to 255.
var colorMaps = map[string][]string{
	"jet":     {"#00007F", "#0000FF", "#007FFF", "#00FFFF", "#7FFF7F", "#FFFF00", "#FF7F00", "#FF0000", "#7F0000"},
	"hot":     {"#000000", "#FF0000", "#FFFF00", "#FFFFFF"},
	"cool":    {"#00FFFF", "#FF00FF"},
	"bone":    {"#000000", "#545474", "#A7C7C7", "#FFFFFF"},
	"viridis": {"#440154", "#3B528B", "#21908C", "#5DC963", "#FDE725"},
	"rainbow": {"#FF0000", "#FFFF00", "#00FF00", "#00FFFF", "#0000FF", "#FF00FF"},
}

// ColorMapNames lists the names accepted by ApplyColorMap.
func ColorMapNames() []string {
	names := make([]string, 0, len(colorMaps))
	for n := range colorMaps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ApplyColorMap renders the luma of img through a named false-color gradient.
func ApplyColorMap(img *Image, name string) (*Image, error) {
	stops, ok := colorMaps[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown color map %q", ErrInvalidArgument, name)
	}
	if err := RequireImage(img, "apply color map"); err != nil {
		return nil, err
	}

	keys := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse color map stop %s: %w", s, err)
		}
		keys[i] = c
	}

	var lut [256]BGR
	segments := float64(len(keys) - 1)
	for v := range lut {
		pos := float64(v) / 255 * segments
		k := int(pos)
		if k >= len(keys)-1 {
			k = len(keys) - 2
		}
		c := keys[k].BlendRgb(keys[k+1], pos-float64(k))
		r, g, b := c.Clamped().RGB255()
		lut[v] = BGR{b, g, r}
	}

	out := lookupColor(Luma(img), &lut)
	return Derive(img, KindColor, out, Entry("apply_color_map", "map", strings.ToLower(name))), nil
}

// lookupColor expands a single-channel buffer through a color table.
func lookupColor(plane Buffer, lut *[256]BGR) Buffer {
	out := NewBuffer(plane.Width, plane.Height, 3)
	for i, v := range plane.Pix {
		c := lut[v]
		copy(out.Pix[i*3:i*3+3], c[:])
	}
	return out
}

func opaque(c color.Color) color.Color {
	b := ToBGR(c)
	return color.RGBA{R: b[2], G: b[1], B: b[0], A: 255}
}
