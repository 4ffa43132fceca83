package filter

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/convolution"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// OddSize normalizes a kernel or block size: even values are incremented to
// the next odd value and values below 1 become 1.
func OddSize(k int) int {
	if k < 1 {
		return 1
	}
	if k%2 == 0 {
		return k + 1
	}
	return k
}

// kernel is a row-major correlation kernel anchored at its center.
type kernel struct {
	w, h int
	m    []float64
}

func newKernel(w, h int) kernel {
	return kernel{w: w, h: h, m: make([]float64, w*h)}
}

func (k kernel) at(x, y int) float64 { return k.m[y*k.w+x] }

func (k kernel) set(x, y int, v float64) { k.m[y*k.w+x] = v }

func (k kernel) scale(f float64) kernel {
	out := newKernel(k.w, k.h)
	for i, v := range k.m {
		out.m[i] = v * f
	}
	return out
}

// outer builds the 2-D kernel col ⊗ row.
func outer(col, row []float64) kernel {
	k := newKernel(len(row), len(col))
	for y, cv := range col {
		for x, rv := range row {
			k.set(x, y, cv*rv)
		}
	}
	return k
}

// convolve correlates every channel of buf with k, adds offset and rounds
// to 8 bits. Borders replicate the edge pixels.
func convolve(buf imaging.Buffer, k kernel, offset float64) imaging.Buffer {
	ck := &convolution.Kernel{Matrix: k.m, Width: k.w, Height: k.h}
	out := convolution.Convolve(imaging.BufferToImage(buf), ck, &convolution.Options{
		Bias:      offset + 0.5,
		Wrap:      false,
		KeepAlpha: true,
	})
	return imaging.BufferFromImage(out, buf.Channels)
}

// convolveFloat correlates a single-channel float plane with k without
// rounding, replicating borders. Used where the signed result is needed.
func convolveFloat(src []float64, w, h int, k kernel) []float64 {
	ax, ay := k.w/2, k.h/2
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for ky := 0; ky < k.h; ky++ {
				py := imaging.ClampInt(y+ky-ay, 0, h-1)
				for kx := 0; kx < k.w; kx++ {
					px := imaging.ClampInt(x+kx-ax, 0, w-1)
					sum += src[py*w+px] * k.at(kx, ky)
				}
			}
			out[y*w+x] = sum
		}
	}
	return out
}

func boxKernel(size int) kernel {
	k := newKernel(size, size)
	v := 1 / float64(size*size)
	for i := range k.m {
		k.m[i] = v
	}
	return k
}

// gaussianSigma returns the default sigma for a kernel size when sigma <= 0,
// the same rule common imaging libraries use.
func gaussianSigma(size int, sigma float64) float64 {
	if sigma > 0 {
		return sigma
	}
	return 0.3*((float64(size)-1)*0.5-1) + 0.8
}

func gaussian1D(size int, sigma float64) []float64 {
	sigma = gaussianSigma(size, sigma)
	g := make([]float64, size)
	c := size / 2
	var sum float64
	for i := range g {
		d := float64(i - c)
		g[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += g[i]
	}
	for i := range g {
		g[i] /= sum
	}
	return g
}

func gaussianKernel(size int, sigma float64) kernel {
	g := gaussian1D(size, sigma)
	return outer(g, g)
}

// derivKernel returns the 1-D separable factor of a Sobel-style operator of
// the given derivative order and aperture: order passes of [-1 1] over a
// binomial smoothing kernel.
func derivKernel(order, size int) []float64 {
	if size == 1 {
		switch order {
		case 0:
			return []float64{1}
		case 1:
			return []float64{-1, 0, 1}
		default:
			return []float64{1, -2, 1}
		}
	}
	k := []float64{1}
	for i := 0; i < size-1-order; i++ {
		k = conv1D(k, []float64{1, 1})
	}
	for i := 0; i < order; i++ {
		k = conv1D(k, []float64{-1, 1})
	}
	return k
}

func conv1D(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

// sobelKernel builds the 2-D kernel for derivative orders dx, dy. When one
// factor has aperture 1 and the other 3, the short one is centered in a
// 3-wide kernel.
func sobelKernel(dx, dy, size int) kernel {
	row := pad(derivKernel(dx, size), derivKernel(dy, size))
	col := pad(derivKernel(dy, size), derivKernel(dx, size))
	return outer(col, row)
}

// pad centers a inside a slice as long as the longer of a and b.
func pad(a, b []float64) []float64 {
	if len(a) >= len(b) {
		return a
	}
	out := make([]float64, len(b))
	copy(out[(len(b)-len(a))/2:], a)
	return out
}

// kernelFromRows validates a rectangular kernel given as rows.
func kernelFromRows(rows [][]float64) (kernel, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return kernel{}, fmt.Errorf("%w: empty kernel", imaging.ErrInvalidArgument)
	}
	k := newKernel(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != k.w {
			return kernel{}, fmt.Errorf("%w: kernel row %d has %d entries, want %d",
				imaging.ErrInvalidArgument, y, len(row), k.w)
		}
		for x, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return kernel{}, fmt.Errorf("%w: kernel entry (%d,%d) is %v", imaging.ErrInvalidArgument, x, y, v)
			}
			k.set(x, y, v)
		}
	}
	return k, nil
}
