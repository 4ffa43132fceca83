package filter

import (
	"fmt"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Shading corrections work on every channel of the source buffer. Color
// sources stay Color; every other kind yields Gray.

// ShadingSubtract removes a dark reference: clip(src - black + offset).
func ShadingSubtract(src, black *imaging.Image, offset float64) (*imaging.Image, error) {
	if err := requireOperands("shading subtract", src, black); err != nil {
		return nil, err
	}
	s, bk := src.Buffer(), black.Buffer()
	out := imaging.NewBuffer(s.Width, s.Height, s.Channels)
	for i := range s.Pix {
		out.Pix[i] = imaging.ClampUint8(float64(s.Pix[i]) - float64(bk.Pix[i]) + offset)
	}
	return deriveShaded(src, out, imaging.Entry("shading_subtract", "black", black.Name(), "offset", offset)), nil
}

// ShadingWhiteBlack normalizes between a dark and a bright reference:
// clip(multiplier * (src - black) / (white - black)). Any sample where the
// references are equal fails with ErrDivideByZero before work starts.
func ShadingWhiteBlack(src, white, black *imaging.Image, multiplier float64) (*imaging.Image, error) {
	if err := requireOperands("shading white black", src, white, black); err != nil {
		return nil, err
	}
	s, wh, bk := src.Buffer(), white.Buffer(), black.Buffer()
	for i := range wh.Pix {
		if wh.Pix[i] == bk.Pix[i] {
			ch := s.Channels
			return nil, fmt.Errorf("%w: white and black references are equal at (%d,%d)",
				imaging.ErrDivideByZero, (i/ch)%s.Width, (i/ch)/s.Width)
		}
	}
	out := imaging.NewBuffer(s.Width, s.Height, s.Channels)
	for i := range s.Pix {
		num := float64(s.Pix[i]) - float64(bk.Pix[i])
		den := float64(wh.Pix[i]) - float64(bk.Pix[i])
		out.Pix[i] = imaging.ClampUint8(multiplier * num / den)
	}
	return deriveShaded(src, out, imaging.Entry("shading_white_black",
		"white", white.Name(), "black", black.Name(), "multiplier", multiplier)), nil
}

// ShadingLocalMean flattens uneven illumination with the image's own k×k
// box mean as the reference: clip(255 * src / max(mean, 1)).
func ShadingLocalMean(src *imaging.Image, k int) (*imaging.Image, error) {
	if err := imaging.RequireImage(src, "shading local mean"); err != nil {
		return nil, err
	}
	k = OddSize(k)
	s := src.Buffer()
	mean := convolve(s, boxKernel(k), 0)
	out := imaging.NewBuffer(s.Width, s.Height, s.Channels)
	for i, v := range s.Pix {
		out.Pix[i] = imaging.ClampUint8(255 * float64(v) / float64(max(mean.Pix[i], 1)))
	}
	return deriveShaded(src, out, imaging.Entry("shading_local_mean", "ksize", k)), nil
}

// ShadingBlackHat inverts the black-hat transform of the luma plane, so
// dark features smaller than k appear dark on a white background.
func ShadingBlackHat(src *imaging.Image, k int) (*imaging.Image, error) {
	if err := imaging.RequireImage(src, "shading black hat"); err != nil {
		return nil, err
	}
	k = OddSize(k)
	return imaging.ApplyLumaBinary(src, imaging.Entry("shading_blackhat", "ksize", k),
		func(b imaging.Buffer) imaging.Buffer {
			return morph(b, MorphBlackHat, k/2, 1).Map(func(v uint8) uint8 { return 255 - v })
		}), nil
}

func requireOperands(op string, src *imaging.Image, refs ...*imaging.Image) error {
	if err := imaging.RequireImage(src, op); err != nil {
		return err
	}
	for _, r := range refs {
		if err := imaging.RequireImage(r, op); err != nil {
			return err
		}
		if r.Width() != src.Width() || r.Height() != src.Height() || r.Channels() != src.Channels() {
			return fmt.Errorf("%w: %s: %dx%dx%d vs %dx%dx%d", imaging.ErrShapeMismatch, op,
				src.Width(), src.Height(), src.Channels(), r.Width(), r.Height(), r.Channels())
		}
	}
	return nil
}

func deriveShaded(src *imaging.Image, out imaging.Buffer, entry string) *imaging.Image {
	kind := imaging.KindGray
	if src.Kind() == imaging.KindColor {
		kind = imaging.KindColor
	}
	return imaging.Derive(src, kind, out, entry)
}
