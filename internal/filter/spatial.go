package filter

import (
	"fmt"
	"math"
	"slices"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Blur smooths the luma plane with a normalized k×k box kernel.
func Blur(img *imaging.Image, k int) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "blur"); err != nil {
		return nil, err
	}
	k = OddSize(k)
	box := boxKernel(k)
	return imaging.ApplyLuma(img, imaging.Entry("blur", "ksize", k), func(b imaging.Buffer) imaging.Buffer {
		return convolve(b, box, 0)
	}), nil
}

// MedianBlur replaces each luma sample with the median of its k×k
// neighborhood. Borders replicate the edge pixels.
func MedianBlur(img *imaging.Image, k int) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "median blur"); err != nil {
		return nil, err
	}
	k = OddSize(k)
	return imaging.ApplyLuma(img, imaging.Entry("median_blur", "ksize", k), func(b imaging.Buffer) imaging.Buffer {
		return median(b, k/2)
	}), nil
}

func median(b imaging.Buffer, r int) imaging.Buffer {
	if r == 0 {
		return b
	}
	w, h := b.Width, b.Height
	out := imaging.NewBuffer(w, h, 1)
	window := make([]uint8, 0, (2*r+1)*(2*r+1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			window = window[:0]
			for dy := -r; dy <= r; dy++ {
				py := imaging.ClampInt(y+dy, 0, h-1)
				for dx := -r; dx <= r; dx++ {
					window = append(window, b.Pix[py*w+imaging.ClampInt(x+dx, 0, w-1)])
				}
			}
			slices.Sort(window)
			out.Pix[y*w+x] = window[len(window)/2]
		}
	}
	return out
}

// GaussianBlur smooths the luma plane with a k×k Gaussian kernel. A sigma
// of zero or less is derived from k.
func GaussianBlur(img *imaging.Image, k int, sigma float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "gaussian blur"); err != nil {
		return nil, err
	}
	if math.IsNaN(sigma) {
		return nil, fmt.Errorf("%w: sigma is NaN", imaging.ErrInvalidArgument)
	}
	k = OddSize(k)
	sigma = gaussianSigma(k, sigma)
	g := gaussianKernel(k, sigma)
	return imaging.ApplyLuma(img, imaging.Entry("gaussian_blur", "ksize", k, "sigma", sigma),
		func(b imaging.Buffer) imaging.Buffer { return convolve(b, g, 0) }), nil
}

// Unsharp sharpens the luma plane: v + amount*(v - gaussian(v)). The
// blurred plane is rounded to 8 bits before the difference is taken.
func Unsharp(img *imaging.Image, k int, amount float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "unsharp"); err != nil {
		return nil, err
	}
	k = OddSize(k)
	g := gaussianKernel(k, 0)
	return imaging.ApplyLuma(img, imaging.Entry("unsharp", "ksize", k, "amount", amount),
		func(b imaging.Buffer) imaging.Buffer {
			blurred := convolve(b, g, 0)
			out := imaging.NewBuffer(b.Width, b.Height, 1)
			for i, v := range b.Pix {
				diff := int(v) - int(blurred.Pix[i])
				out.Pix[i] = imaging.ClampUint8(float64(v) + amount*float64(diff))
			}
			return out
		}), nil
}

// Bilateral applies an edge-preserving bilateral filter of diameter d to
// the luma plane. sigmaColor weights intensity differences, sigmaSpace
// spatial distance. When d <= 0 the diameter is derived from sigmaSpace.
func Bilateral(img *imaging.Image, d int, sigmaColor, sigmaSpace float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "bilateral"); err != nil {
		return nil, err
	}
	if !(sigmaColor > 0) || !(sigmaSpace > 0) {
		return nil, fmt.Errorf("%w: bilateral sigmas must be positive (color=%g, space=%g)",
			imaging.ErrInvalidArgument, sigmaColor, sigmaSpace)
	}
	r := d / 2
	if d <= 0 {
		r = int(math.Round(sigmaSpace * 1.5))
	}
	r = max(r, 1)
	return imaging.ApplyLuma(img, imaging.Entry("bilateral", "d", 2*r+1, "sigma_color", sigmaColor, "sigma_space", sigmaSpace),
		func(b imaging.Buffer) imaging.Buffer { return bilateral(b, r, sigmaColor, sigmaSpace) }), nil
}

func bilateral(b imaging.Buffer, r int, sc, ss float64) imaging.Buffer {
	var colorW [256]float64
	for i := range colorW {
		colorW[i] = math.Exp(-float64(i*i) / (2 * sc * sc))
	}
	size := 2*r + 1
	spaceW := make([]float64, size*size)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d2 := float64(dx*dx + dy*dy)
			if d2 > float64(r*r) {
				continue
			}
			spaceW[(dy+r)*size+dx+r] = math.Exp(-d2 / (2 * ss * ss))
		}
	}

	w, h := b.Width, b.Height
	out := imaging.NewBuffer(w, h, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := b.Pix[y*w+x]
			var sum, norm float64
			for dy := -r; dy <= r; dy++ {
				py := imaging.ClampInt(y+dy, 0, h-1)
				for dx := -r; dx <= r; dx++ {
					sw := spaceW[(dy+r)*size+dx+r]
					if sw == 0 {
						continue
					}
					v := b.Pix[py*w+imaging.ClampInt(x+dx, 0, w-1)]
					wt := sw * colorW[absDiff(v, c)]
					sum += wt * float64(v)
					norm += wt
				}
			}
			out.Pix[y*w+x] = imaging.ClampUint8(sum / norm)
		}
	}
	return out
}

// EdgePreserving smooths the luma plane with the recursive domain-transform
// filter. sigmaS is the spatial extent in pixels, sigmaR the range extent
// on intensities normalized to [0, 1].
func EdgePreserving(img *imaging.Image, sigmaS, sigmaR float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "edge preserving"); err != nil {
		return nil, err
	}
	if err := checkDomainSigmas(sigmaS, sigmaR); err != nil {
		return nil, err
	}
	return imaging.ApplyLuma(img, imaging.Entry("edge_preserving", "sigma_s", sigmaS, "sigma_r", sigmaR),
		func(b imaging.Buffer) imaging.Buffer {
			return floatsToPlane(b, domainTransform(b, sigmaS, sigmaR))
		}), nil
}

// DetailEnhance boosts fine detail: the luma plane is split into an
// edge-preserving base and a detail layer, and the detail layer is scaled
// by amount before recombining.
func DetailEnhance(img *imaging.Image, sigmaS, sigmaR, amount float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "detail enhance"); err != nil {
		return nil, err
	}
	if err := checkDomainSigmas(sigmaS, sigmaR); err != nil {
		return nil, err
	}
	return imaging.ApplyLuma(img, imaging.Entry("detail_enhance", "sigma_s", sigmaS, "sigma_r", sigmaR, "amount", amount),
		func(b imaging.Buffer) imaging.Buffer {
			base := domainTransform(b, sigmaS, sigmaR)
			out := make([]float64, len(base))
			for i, v := range b.Pix {
				out[i] = base[i] + amount*(float64(v)-base[i])
			}
			return floatsToPlane(b, out)
		}), nil
}

func checkDomainSigmas(sigmaS, sigmaR float64) error {
	if !(sigmaS > 0) || !(sigmaR > 0) {
		return fmt.Errorf("%w: sigma_s and sigma_r must be positive (got %g, %g)",
			imaging.ErrInvalidArgument, sigmaS, sigmaR)
	}
	return nil
}

const domainIterations = 3

// domainTransform runs the recursive-filter variant of the domain transform:
// alternating horizontal and vertical passes whose feedback coefficient
// shrinks across strong intensity steps. Returns values in 0..255.
func domainTransform(b imaging.Buffer, sigmaS, sigmaR float64) []float64 {
	w, h := b.Width, b.Height
	f := make([]float64, w*h)
	for i, v := range b.Pix {
		f[i] = float64(v) / 255
	}

	ratio := sigmaS / sigmaR
	dx := make([]float64, w*h)
	dy := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 1; x < w; x++ {
			dx[y*w+x] = 1 + ratio*math.Abs(f[y*w+x]-f[y*w+x-1])
		}
	}
	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			dy[y*w+x] = 1 + ratio*math.Abs(f[y*w+x]-f[(y-1)*w+x])
		}
	}

	norm := math.Sqrt(math.Pow(4, domainIterations) - 1)
	for i := 0; i < domainIterations; i++ {
		sigmaH := sigmaS * math.Sqrt(3) * math.Pow(2, float64(domainIterations-i-1)) / norm
		a := math.Exp(-math.Sqrt2 / sigmaH)
		recursivePass(f, dx, w, h, 1, w, a)
		recursivePass(f, dy, h, w, w, 1, a)
	}

	for i := range f {
		f[i] *= 255
	}
	return f
}

// recursivePass filters every line of f in both directions. A line has n
// samples spaced step apart; consecutive lines start stride apart.
func recursivePass(f, d []float64, n, lines, step, stride int, a float64) {
	for l := 0; l < lines; l++ {
		base := l * stride
		for i := 1; i < n; i++ {
			p := base + i*step
			v := math.Pow(a, d[p])
			f[p] += v * (f[p-step] - f[p])
		}
		for i := n - 2; i >= 0; i-- {
			p := base + i*step
			v := math.Pow(a, d[p+step])
			f[p] += v * (f[p+step] - f[p])
		}
	}
}

func floatsToPlane(b imaging.Buffer, v []float64) imaging.Buffer {
	return imaging.BufferFromFloats(b.Width, b.Height, 1, v)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
