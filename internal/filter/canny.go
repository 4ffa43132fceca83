package filter

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Canny detects edges on the luma plane and returns a Binary image with
// edges set to 255.
//
// The plane is smoothed with a 5x5 Gaussian (sigma ≈ 1.4), Sobel gradients
// are thinned by non-maximum suppression, and hysteresis keeps every pixel
// above high plus every pixel above low that is 8-connected to one.
//
// Recommended starting points:
//   - Clean diagrams: low=50, high=150
//   - Photographs: low=100, high=200
//   - Noisy images: low=75, high=175
func Canny(img *imaging.Image, low, high float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "canny"); err != nil {
		return nil, err
	}
	if low < 0 || high < 0 || low > high {
		return nil, fmt.Errorf("%w: canny thresholds low=%g high=%g", imaging.ErrInvalidArgument, low, high)
	}
	out := CannyPlane(imaging.Luma(img), low, high)
	return imaging.Derive(img, imaging.KindBinary, out, imaging.Entry("canny", "low", low, "high", high)), nil
}

// Gradient holds per-pixel Sobel derivatives of a smoothed plane.
type Gradient struct {
	Width, Height int
	X, Y          []float64
}

// Magnitude returns the gradient length at index i.
func (g Gradient) Magnitude(i int) float64 { return math.Hypot(g.X[i], g.Y[i]) }

var cannySmooth = func() kernel {
	k := newKernel(5, 5)
	copy(k.m, []float64{
		1, 4, 7, 4, 1,
		4, 16, 26, 16, 4,
		7, 26, 41, 26, 7,
		4, 16, 26, 16, 4,
		1, 4, 7, 4, 1,
	})
	return k.scale(1.0 / 273)
}()

// SmoothedGradient blurs a single-channel plane with the Canny smoothing
// kernel and returns its 3x3 Sobel gradient.
func SmoothedGradient(plane imaging.Buffer) Gradient {
	w, h := plane.Width, plane.Height
	blurred := convolveFloat(plane.Floats(), w, h, cannySmooth)
	return Gradient{
		Width:  w,
		Height: h,
		X:      convolveFloat(blurred, w, h, sobelKernel(1, 0, 3)),
		Y:      convolveFloat(blurred, w, h, sobelKernel(0, 1, 3)),
	}
}

// CannyPlane runs Canny on a single-channel plane and returns a {0,255}
// plane of the same size.
func CannyPlane(plane imaging.Buffer, low, high float64) imaging.Buffer {
	g := SmoothedGradient(plane)
	w, h := g.Width, g.Height
	mag := make([]float64, w*h)
	for i := range mag {
		mag[i] = g.Magnitude(i)
	}

	// Non-maximum suppression along the quantized gradient direction.
	suppressed := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			angle := math.Atan2(g.Y[i], g.X[i])
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = mag[i-1], mag[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = mag[i-w+1], mag[i+w-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = mag[i-w], mag[i+w]
			default:
				n1, n2 = mag[i-w-1], mag[i+w+1]
			}
			if mag[i] >= n1 && mag[i] >= n2 {
				suppressed[i] = mag[i]
			}
		}
	}

	// Hysteresis: grow from strong pixels through weak ones.
	out := imaging.NewBuffer(w, h, 1)
	var stack []int
	for i, v := range suppressed {
		if v >= high && v > 0 {
			out.Pix[i] = 255
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if out.Pix[j] == 0 && suppressed[j] >= low && suppressed[j] > 0 {
					out.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}
	return out
}
