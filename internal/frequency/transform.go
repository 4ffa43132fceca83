package frequency

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// MaskThreshold binarizes Color and Gray masks: samples above it pass.
const MaskThreshold = 127

// Forward computes the 2-D DFT of the image's luma plane. The spectrum is
// quadrant-shifted so the DC term sits at (Width/2, Height/2). The display
// buffer holds 20·ln(|F|), floored at 0, min-max scaled to 0..255.
func Forward(img *imaging.Image) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "dft"); err != nil {
		return nil, err
	}
	plane := imaging.Luma(img)
	w, h := plane.Width, plane.Height

	rows := make([][]float64, h)
	for y := range rows {
		rows[y] = make([]float64, w)
		for x := range rows[y] {
			rows[y][x] = float64(plane.Pix[y*w+x])
		}
	}
	coeffs := fft.FFT2Real(rows)

	spec := imaging.Spectrum{Width: w, Height: h, Re: make([]float64, w*h), Im: make([]float64, w*h)}
	logMag := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := coeffs[y][x]
			i := shiftedIndex(x, y, w, h)
			spec.Re[i], spec.Im[i] = real(c), imag(c)
			logMag[i] = 20 * math.Log(math.Max(cmplx.Abs(c), 1))
		}
	}
	return imaging.NewFrequency(img, normalize(logMag, w, h), spec, imaging.Entry("dft")), nil
}

// Inverse transforms a Frequency image back to a Gray image. mask, if not
// nil, must match the spectrum size; Binary masks pass where 255, Color and
// Gray masks pass where luma exceeds MaskThreshold. The real part of the
// inverse is min-max scaled to 0..255.
func Inverse(img, mask *imaging.Image) (*imaging.Image, error) {
	if err := imaging.Require(img, "idft", imaging.KindFrequency); err != nil {
		return nil, err
	}
	spec, _ := img.Spectrum()
	w, h := spec.Width, spec.Height

	var pass []bool
	if mask != nil {
		if mask.Width() != w || mask.Height() != h {
			return nil, fmt.Errorf("%w: mask %dx%d, spectrum %dx%d",
				imaging.ErrShapeMismatch, mask.Width(), mask.Height(), w, h)
		}
		pass = maskPlane(mask)
	}

	coeffs := make([][]complex128, h)
	for y := range coeffs {
		coeffs[y] = make([]complex128, w)
		for x := range coeffs[y] {
			i := shiftedIndex(x, y, w, h)
			if pass != nil && !pass[i] {
				continue
			}
			coeffs[y][x] = complex(spec.Re[i], spec.Im[i])
		}
	}
	back := fft.IFFT2(coeffs)

	re := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			re[y*w+x] = real(back[y][x])
		}
	}
	entry := imaging.Entry("idft", "mask", mask != nil)
	return imaging.Derive(img, imaging.KindGray, normalize(re, w, h), entry), nil
}

// shiftedIndex maps an unshifted frequency coordinate to its position in
// the centered layout.
func shiftedIndex(x, y, w, h int) int {
	return ((y+h/2)%h)*w + (x+w/2)%w
}

func maskPlane(mask *imaging.Image) []bool {
	plane := imaging.Luma(mask)
	pass := make([]bool, len(plane.Pix))
	for i, v := range plane.Pix {
		if mask.Kind() == imaging.KindBinary {
			pass[i] = v == 255
		} else {
			pass[i] = v > MaskThreshold
		}
	}
	return pass
}

// normalize min-max scales values to 0..255. A flat input maps to 0.
func normalize(values []float64, w, h int) imaging.Buffer {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	out := imaging.NewBuffer(w, h, 1)
	if hi-lo == 0 {
		return out
	}
	for i, v := range values {
		out.Pix[i] = imaging.ClampUint8((v - lo) * 255 / (hi - lo))
	}
	return out
}
