package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/image-pipeline/internal/imaging"
	"github.com/ironsheep/image-pipeline/internal/stats"
)

// ThresholdMethod selects how Threshold resolves its cut-off value.
type ThresholdMethod string

const (
	// ThresholdFixed uses the value passed by the caller.
	ThresholdFixed ThresholdMethod = "fixed"
	// ThresholdOtsu maximizes the between-class variance of the histogram.
	ThresholdOtsu ThresholdMethod = "otsu"
	// ThresholdTriangle uses the triangle (Zack) method, suited to histograms
	// with a single dominant peak.
	ThresholdTriangle ThresholdMethod = "triangle"
)

// ParseThresholdMethod accepts "fixed", "otsu" or "triangle". The empty
// string means fixed.
func ParseThresholdMethod(s string) (ThresholdMethod, error) {
	switch m := ThresholdMethod(strings.ToLower(s)); m {
	case "", ThresholdFixed:
		return ThresholdFixed, nil
	case ThresholdOtsu, ThresholdTriangle:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown threshold method %q", imaging.ErrInvalidArgument, s)
}

// ThresholdResult is a binarized image together with the threshold that
// produced it.
type ThresholdResult struct {
	Image     *imaging.Image
	Threshold float64
}

// Threshold binarizes img: samples strictly greater than the threshold become
// 255, everything else 0. Color input is reduced to luma first; Frequency
// input is thresholded on its magnitude.
//
// For ThresholdFixed, value is used as given. Otsu and triangle ignore value
// and compute the threshold from the histogram; the resolved value is
// returned in the result and recorded in the log.
//
// Thresholding a Binary image again with the same value reproduces it
// exactly for any value in [0, 255).
func Threshold(img *imaging.Image, value float64, method ThresholdMethod) (*ThresholdResult, error) {
	if err := imaging.RequireImage(img, "threshold"); err != nil {
		return nil, err
	}
	if math.IsNaN(value) {
		return nil, fmt.Errorf("%w: threshold value is NaN", imaging.ErrInvalidArgument)
	}

	plane := imaging.Luma(img)
	var t float64
	switch method {
	case ThresholdFixed, "":
		method = ThresholdFixed
		t = value
	case ThresholdOtsu:
		t = float64(otsu(stats.PlaneBins(plane)))
	case ThresholdTriangle:
		t = float64(triangle(stats.PlaneBins(plane)))
	default:
		return nil, fmt.Errorf("%w: unknown threshold method %q", imaging.ErrInvalidArgument, method)
	}

	var lut [256]uint8
	for v := range lut {
		if float64(v) > t {
			lut[v] = 255
		}
	}
	out := imaging.Derive(img, imaging.KindBinary, plane.ApplyTable(&lut),
		imaging.Entry("threshold", "method", method, "value", t))
	return &ThresholdResult{Image: out, Threshold: t}, nil
}

// AdaptiveMethod selects the local mean used by AdaptiveThreshold.
type AdaptiveMethod string

const (
	// AdaptiveMean compares each pixel with the plain block average.
	AdaptiveMean AdaptiveMethod = "mean"
	// AdaptiveGaussian weights the block with a Gaussian centered on the
	// pixel.
	AdaptiveGaussian AdaptiveMethod = "gaussian"
)

// AdaptiveThreshold binarizes img against a per-pixel threshold: the mean
// (or Gaussian-weighted mean) of the block×block neighborhood minus c. A
// pixel becomes 255 when its value is strictly greater than that threshold.
//
// block is normalized with OddSize and raised to at least 3.
func AdaptiveThreshold(img *imaging.Image, block int, c float64, method AdaptiveMethod) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "adaptive threshold"); err != nil {
		return nil, err
	}
	block = max(OddSize(block), 3)

	var k kernel
	switch AdaptiveMethod(strings.ToLower(string(method))) {
	case AdaptiveMean, "":
		method = AdaptiveMean
		k = boxKernel(block)
	case AdaptiveGaussian:
		method = AdaptiveGaussian
		k = gaussianKernel(block, 0)
	default:
		return nil, fmt.Errorf("%w: unknown adaptive method %q", imaging.ErrInvalidArgument, method)
	}

	plane := imaging.Luma(img)
	mean := convolve(plane, k, 0)
	out := imaging.NewBuffer(plane.Width, plane.Height, 1)
	for i, v := range plane.Pix {
		if float64(v) > float64(mean.Pix[i])-c {
			out.Pix[i] = 255
		}
	}
	return imaging.Derive(img, imaging.KindBinary, out,
		imaging.Entry("adaptive_threshold", "block", block, "c", c, "method", method)), nil
}

// otsu returns the threshold maximizing the between-class variance. Ties
// keep the lowest threshold.
func otsu(hist [256]int) int {
	total := 0
	var sum float64
	for v, n := range hist {
		total += n
		sum += float64(v * n)
	}

	var sumB float64
	wB := 0
	best, bestVar := 0, -1.0
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > bestVar {
			best, bestVar = t, between
		}
	}
	return best
}

// triangle implements the triangle method: a line is drawn from the
// histogram peak to the far end of the non-empty range and the threshold is
// the bin with the greatest distance below that line.
func triangle(hist [256]int) int {
	left, right := 0, 255
	for left < 256 && hist[left] == 0 {
		left++
	}
	for right > 0 && hist[right] == 0 {
		right--
	}
	if left > 0 {
		left--
	}
	if right < 255 {
		right++
	}

	peak := 0
	for v := 0; v < 256; v++ {
		if hist[v] > hist[peak] {
			peak = v
		}
	}

	// Walk toward the longer tail; mirror when it lies on the right.
	flip := peak-left < right-peak
	h := hist
	if flip {
		for i, j := 0, 255; i < j; i, j = i+1, j-1 {
			h[i], h[j] = h[j], h[i]
		}
		left = 255 - right
		peak = 255 - peak
	}

	a := float64(h[peak])
	b := float64(left - peak)
	thresh := left
	maxDist := 0.0
	for v := left + 1; v <= peak; v++ {
		d := a*float64(v) + b*float64(h[v])
		if d > maxDist {
			maxDist = d
			thresh = v
		}
	}
	thresh--

	if flip {
		thresh = 255 - thresh
	}
	return thresh
}
