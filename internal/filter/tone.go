package filter

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/image-pipeline/internal/imaging"
	"github.com/ironsheep/image-pipeline/internal/stats"
)

// toneLUT applies a 256-entry table to the luma plane.
func toneLUT(img *imaging.Image, entry string, lut *[256]uint8) *imaging.Image {
	return imaging.ApplyLuma(img, entry, func(b imaging.Buffer) imaging.Buffer {
		return b.ApplyTable(lut)
	})
}

func lutFrom(fn func(v float64) float64) *[256]uint8 {
	var lut [256]uint8
	for v := range lut {
		lut[v] = imaging.ClampUint8(fn(float64(v)))
	}
	return &lut
}

// EqualizeHist spreads the luma histogram over the full 0-255 range using
// its cumulative distribution. A flat plane is returned unchanged.
func EqualizeHist(img *imaging.Image) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "equalize"); err != nil {
		return nil, err
	}
	return imaging.ApplyLuma(img, imaging.Entry("equalize_hist"), equalize), nil
}

func equalize(b imaging.Buffer) imaging.Buffer {
	hist := stats.PlaneBins(b)
	total := len(b.Pix)
	cdf := 0
	cdfMin := -1
	var lut [256]uint8
	for v, n := range hist {
		cdf += n
		if cdfMin < 0 {
			if n == 0 {
				continue
			}
			cdfMin = cdf
		}
		if total == cdfMin {
			lut[v] = uint8(v)
			continue
		}
		lut[v] = imaging.ClampUint8(float64(cdf-cdfMin) * 255 / float64(total-cdfMin))
	}
	return b.ApplyTable(&lut)
}

// CLAHE performs contrast-limited adaptive histogram equalization on a
// tiles×tiles grid. clip is the clip limit relative to a uniform histogram
// (values below 1 disable clipping); the excess is redistributed evenly.
// Per-tile mappings are blended bilinearly between tile centers.
func CLAHE(img *imaging.Image, clip float64, tiles int) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "clahe"); err != nil {
		return nil, err
	}
	if tiles < 1 {
		return nil, fmt.Errorf("%w: clahe tile grid %d", imaging.ErrInvalidArgument, tiles)
	}
	tx := min(tiles, img.Width())
	ty := min(tiles, img.Height())
	return imaging.ApplyLuma(img, imaging.Entry("clahe", "clip", clip, "tiles", tiles),
		func(b imaging.Buffer) imaging.Buffer { return clahe(b, clip, tx, ty) }), nil
}

func clahe(b imaging.Buffer, clip float64, tx, ty int) imaging.Buffer {
	w, h := b.Width, b.Height
	tileW := float64(w) / float64(tx)
	tileH := float64(h) / float64(ty)

	luts := make([][256]uint8, tx*ty)
	for j := 0; j < ty; j++ {
		for i := 0; i < tx; i++ {
			x0, x1 := int(float64(i)*tileW), int(float64(i+1)*tileW)
			y0, y1 := int(float64(j)*tileH), int(float64(j+1)*tileH)
			var hist [256]int
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[b.Pix[y*w+x]]++
				}
			}
			area := (x1 - x0) * (y1 - y0)
			if clip >= 1 {
				limit := max(int(clip*float64(area)/256), 1)
				excess := 0
				for v := range hist {
					if hist[v] > limit {
						excess += hist[v] - limit
						hist[v] = limit
					}
				}
				add, rest := excess/256, excess%256
				for v := range hist {
					hist[v] += add
					if v < rest {
						hist[v]++
					}
				}
			}
			lut := &luts[j*tx+i]
			cdf := 0
			for v := range hist {
				cdf += hist[v]
				lut[v] = imaging.ClampUint8(float64(cdf) * 255 / float64(area))
			}
		}
	}

	out := imaging.NewBuffer(w, h, 1)
	for y := 0; y < h; y++ {
		fy := (float64(y)+0.5)/tileH - 0.5
		j0 := int(math.Floor(fy))
		wy := fy - float64(j0)
		j1 := min(j0+1, ty-1)
		j0 = max(j0, 0)
		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)/tileW - 0.5
			i0 := int(math.Floor(fx))
			wx := fx - float64(i0)
			i1 := min(i0+1, tx-1)
			i0 = max(i0, 0)

			v := b.Pix[y*w+x]
			top := float64(luts[j0*tx+i0][v])*(1-wx) + float64(luts[j0*tx+i1][v])*wx
			bot := float64(luts[j1*tx+i0][v])*(1-wx) + float64(luts[j1*tx+i1][v])*wx
			out.Pix[y*w+x] = imaging.ClampUint8(top*(1-wy) + bot*wy)
		}
	}
	return out
}

// Normalize min-max scales the luma plane to [min(alpha,beta),
// max(alpha,beta)]. A flat plane maps to the lower bound.
func Normalize(img *imaging.Image, alpha, beta float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "normalize"); err != nil {
		return nil, err
	}
	lo, hi := math.Min(alpha, beta), math.Max(alpha, beta)
	return imaging.ApplyLuma(img, imaging.Entry("normalize", "alpha", alpha, "beta", beta),
		func(b imaging.Buffer) imaging.Buffer {
			mn, mx := minMax(b.Pix)
			if mn == mx {
				return b.Map(func(uint8) uint8 { return imaging.ClampUint8(lo) })
			}
			scale := (hi - lo) / float64(mx-mn)
			return b.ApplyTable(lutFrom(func(v float64) float64 { return (v-float64(mn))*scale + lo }))
		}), nil
}

// LinearStretch maps luma lo..hi linearly onto 0..255, clipping outside.
// Returns ErrDegenerateInput when lo equals hi.
func LinearStretch(img *imaging.Image, lo, hi float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "linear stretch"); err != nil {
		return nil, err
	}
	if lo == hi {
		return nil, fmt.Errorf("%w: stretch bounds are equal (%g)", imaging.ErrDegenerateInput, lo)
	}
	lut := lutFrom(func(v float64) float64 { return (v - lo) * 255 / (hi - lo) })
	return toneLUT(img, imaging.Entry("linear_stretch", "lo", lo, "hi", hi), lut), nil
}

// Expand stretches the luma plane from its own minimum and maximum to
// 0..255. A flat plane has no range to expand and fails with
// ErrDegenerateInput.
func Expand(img *imaging.Image) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "expand"); err != nil {
		return nil, err
	}
	mn, mx := minMax(imaging.Luma(img).Pix)
	if mn == mx {
		return nil, fmt.Errorf("%w: flat image (all samples %d)", imaging.ErrDegenerateInput, mn)
	}
	lo, hi := float64(mn), float64(mx)
	lut := lutFrom(func(v float64) float64 { return (v - lo) * 255 / (hi - lo) })
	return toneLUT(img, imaging.Entry("expand", "lo", mn, "hi", mx), lut), nil
}

// ContrastBrightness computes alpha*v + beta on the luma plane.
func ContrastBrightness(img *imaging.Image, alpha, beta float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "contrast brightness"); err != nil {
		return nil, err
	}
	lut := lutFrom(func(v float64) float64 { return alpha*v + beta })
	return toneLUT(img, imaging.Entry("contrast_brightness", "alpha", alpha, "beta", beta), lut), nil
}

// MeanStdRemap shifts and scales the luma plane so that its mean and
// population standard deviation become mean and std. A flat plane is set to
// mean.
func MeanStdRemap(img *imaging.Image, mean, std float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "mean std remap"); err != nil {
		return nil, err
	}
	if std < 0 {
		return nil, fmt.Errorf("%w: negative target std %g", imaging.ErrInvalidArgument, std)
	}
	return imaging.ApplyLuma(img, imaging.Entry("mean_std_remap", "mean", mean, "std", std),
		func(b imaging.Buffer) imaging.Buffer {
			m, s := stats.MeanStd(b.Floats())
			if s == 0 {
				return b.Map(func(uint8) uint8 { return imaging.ClampUint8(mean) })
			}
			return b.ApplyTable(lutFrom(func(v float64) float64 { return (v-m)/s*std + mean }))
		}), nil
}

// BrightnessInvert inverts the luma plane only (255 - Y), leaving chroma
// untouched. Binary images stay Binary.
func BrightnessInvert(img *imaging.Image) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "brightness invert"); err != nil {
		return nil, err
	}
	return imaging.ApplyLumaBinary(img, imaging.Entry("brightness_invert"), func(b imaging.Buffer) imaging.Buffer {
		return b.Map(func(v uint8) uint8 { return 255 - v })
	}), nil
}

// Invert inverts every channel. Binary images stay Binary; Frequency images
// invert their magnitude and become Gray.
func Invert(img *imaging.Image) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "invert"); err != nil {
		return nil, err
	}
	buf := img.Buffer()
	out := imaging.BufferFromImage(effect.Invert(imaging.BufferToImage(buf)), buf.Channels)

	kind := img.Kind()
	if kind == imaging.KindFrequency {
		kind = imaging.KindGray
	}
	return imaging.Derive(img, kind, out, imaging.Entry("invert")), nil
}

// ApplyLUT maps the luma plane through a 256-entry lookup table.
func ApplyLUT(img *imaging.Image, lut *[256]uint8, name string) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "apply lut"); err != nil {
		return nil, err
	}
	if lut == nil {
		return nil, fmt.Errorf("%w: nil lookup table", imaging.ErrInvalidArgument)
	}
	return toneLUT(img, imaging.Entry("apply_lut", "name", name), lut), nil
}

// Gamma applies 255*(v/255)^(1/g) to the luma plane; g > 1 brightens.
func Gamma(img *imaging.Image, g float64) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "gamma"); err != nil {
		return nil, err
	}
	if !(g > 0) || math.IsInf(g, 0) {
		return nil, fmt.Errorf("%w: gamma %g", imaging.ErrInvalidArgument, g)
	}
	lut := lutFrom(func(v float64) float64 { return 255 * math.Pow(v/255, 1/g) })
	return toneLUT(img, imaging.Entry("gamma", "gamma", g), lut), nil
}

// Posterize quantizes luma into n levels. The 0-255 input range is split
// into n equal bins, bin i maps to output level i*255/(n-1), and 255 itself
// is pinned to the top level. n must be in [2, 256].
func Posterize(img *imaging.Image, n int) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "posterize"); err != nil {
		return nil, err
	}
	lut, err := PosterizeTable(n)
	if err != nil {
		return nil, err
	}
	return toneLUT(img, imaging.Entry("posterize", "levels", n), lut), nil
}

// PosterizeTable builds the lookup table used by Posterize.
func PosterizeTable(n int) (*[256]uint8, error) {
	if n < 2 || n > 256 {
		return nil, fmt.Errorf("%w: posterize levels %d outside [2, 256]", imaging.ErrInvalidArgument, n)
	}
	var lut [256]uint8
	step := 255 / float64(n)
	for v := range lut {
		bin := min(int(float64(v)/step), n-1)
		lut[v] = imaging.ClampUint8(float64(bin) * 255 / float64(n-1))
	}
	return &lut, nil
}

func minMax(pix []uint8) (uint8, uint8) {
	mn, mx := uint8(255), uint8(0)
	for _, v := range pix {
		mn = min(mn, v)
		mx = max(mx, v)
	}
	return mn, mx
}
