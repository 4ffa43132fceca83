package filter

import (
	"fmt"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// DefaultDerivativeOffset keeps signed gradients representable in 8 bits.
const DefaultDerivativeOffset = 128

const maxDerivativeAperture = 31

// Sobel computes the (dx, dy)-order derivative of the luma plane with a
// k×k Sobel aperture and adds offset. The result is Gray. k == 1 uses the
// unsmoothed [-1 0 1] / [1 -2 1] operators.
func Sobel(img *imaging.Image, dx, dy, k int, offset float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "sobel"); err != nil {
		return nil, err
	}
	k = OddSize(k)
	if err := checkDerivative(dx, dy, k); err != nil {
		return nil, err
	}
	out := convolve(imaging.Luma(img), sobelKernel(dx, dy, k), offset)
	return imaging.Derive(img, imaging.KindGray, out,
		imaging.Entry("sobel", "dx", dx, "dy", dy, "ksize", k, "offset", offset)), nil
}

func checkDerivative(dx, dy, k int) error {
	switch {
	case k > maxDerivativeAperture:
		return fmt.Errorf("%w: derivative aperture %d exceeds %d", imaging.ErrInvalidArgument, k, maxDerivativeAperture)
	case dx < 0 || dy < 0 || dx+dy == 0:
		return fmt.Errorf("%w: derivative orders dx=%d dy=%d", imaging.ErrInvalidArgument, dx, dy)
	case k == 1 && (dx > 2 || dy > 2):
		return fmt.Errorf("%w: aperture 1 supports orders up to 2, got dx=%d dy=%d", imaging.ErrInvalidArgument, dx, dy)
	case k > 1 && (dx >= k || dy >= k):
		return fmt.Errorf("%w: derivative order must be below aperture %d, got dx=%d dy=%d", imaging.ErrInvalidArgument, k, dx, dy)
	}
	return nil
}

// Laplacian computes the sum of second derivatives of the luma plane and
// adds offset. The result is Gray.
func Laplacian(img *imaging.Image, k int, offset float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "laplacian"); err != nil {
		return nil, err
	}
	k = OddSize(k)
	if k > maxDerivativeAperture {
		return nil, fmt.Errorf("%w: laplacian aperture %d exceeds %d", imaging.ErrInvalidArgument, k, maxDerivativeAperture)
	}
	out := convolve(imaging.Luma(img), laplacianKernel(k), offset)
	return imaging.Derive(img, imaging.KindGray, out,
		imaging.Entry("laplacian", "ksize", k, "offset", offset)), nil
}

func laplacianKernel(k int) kernel {
	if k == 1 {
		lk := newKernel(3, 3)
		copy(lk.m, []float64{0, 1, 0, 1, -4, 1, 0, 1, 0})
		return lk
	}
	xx := sobelKernel(2, 0, k)
	yy := sobelKernel(0, 2, k)
	for i := range xx.m {
		xx.m[i] += yy.m[i]
	}
	return xx
}

// Filter2D correlates the luma plane with a user kernel scaled by
// multiplier/divisor and adds offset. A zero divisor fails with
// ErrDivideByZero.
func Filter2D(img *imaging.Image, rows [][]float64, multiplier, divisor, offset float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "filter2d"); err != nil {
		return nil, err
	}
	if divisor == 0 {
		return nil, fmt.Errorf("%w: filter2d divisor", imaging.ErrDivideByZero)
	}
	k, err := kernelFromRows(rows)
	if err != nil {
		return nil, err
	}
	k = k.scale(multiplier / divisor)
	return imaging.ApplyLuma(img, imaging.Entry("filter2d", "size", fmt.Sprintf("%dx%d", k.w, k.h),
		"multiplier", multiplier, "divisor", divisor, "offset", offset),
		func(b imaging.Buffer) imaging.Buffer { return convolve(b, k, offset) }), nil
}
