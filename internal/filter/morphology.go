package filter

import (
	"fmt"
	"strings"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// MorphOp names a compound morphological operation.
type MorphOp string

// Erode and dilate are the basic min and max filters; the rest combine them:
// open is erode then dilate, close is dilate then erode, gradient is
// dilate minus erode, tophat is src minus open and blackhat is close minus
// src.
const (
	MorphErode    MorphOp = "erode"
	MorphDilate   MorphOp = "dilate"
	MorphOpen     MorphOp = "open"
	MorphClose    MorphOp = "close"
	MorphGradient MorphOp = "gradient"
	MorphTopHat   MorphOp = "tophat"
	MorphBlackHat MorphOp = "blackhat"
)

// ParseMorphOp accepts the lower-case operation names.
func ParseMorphOp(s string) (MorphOp, error) {
	switch op := MorphOp(strings.ToLower(s)); op {
	case MorphErode, MorphDilate, MorphOpen, MorphClose, MorphGradient, MorphTopHat, MorphBlackHat:
		return op, nil
	}
	return "", fmt.Errorf("%w: unknown morphology op %q", imaging.ErrInvalidArgument, s)
}

// Erode applies a k×k square minimum filter it times. Pixels outside the
// image do not take part. Binary input stays Binary.
func Erode(img *imaging.Image, k, it int) (*imaging.Image, error) {
	return Morphology(img, MorphErode, k, it)
}

// Dilate applies a k×k square maximum filter it times.
func Dilate(img *imaging.Image, k, it int) (*imaging.Image, error) {
	return Morphology(img, MorphDilate, k, it)
}

// Morphology runs op with a k×k square structuring element. Compound
// operations repeat each of their erosion and dilation stages it times.
func Morphology(img *imaging.Image, op MorphOp, k, it int) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "morphology"); err != nil {
		return nil, err
	}
	op, err := ParseMorphOp(string(op))
	if err != nil {
		return nil, err
	}
	if it < 0 {
		return nil, fmt.Errorf("%w: negative iteration count %d", imaging.ErrInvalidArgument, it)
	}
	k = OddSize(k)
	return imaging.ApplyLumaBinary(img, imaging.Entry(string(op), "ksize", k, "iterations", it),
		func(b imaging.Buffer) imaging.Buffer { return morph(b, op, k/2, it) }), nil
}

func morph(b imaging.Buffer, op MorphOp, r, it int) imaging.Buffer {
	switch op {
	case MorphErode:
		return erode(b, r, it)
	case MorphDilate:
		return dilate(b, r, it)
	case MorphOpen:
		return dilate(erode(b, r, it), r, it)
	case MorphClose:
		return erode(dilate(b, r, it), r, it)
	case MorphGradient:
		return subtract(dilate(b, r, it), erode(b, r, it))
	case MorphTopHat:
		return subtract(b, dilate(erode(b, r, it), r, it))
	case MorphBlackHat:
		return subtract(erode(dilate(b, r, it), r, it), b)
	}
	panic("filter: unhandled morphology op " + string(op))
}

// MorphEdge is the morphological gradient with independent iteration
// counts: dilate(dilateN) - erode(erodeN). With both counts zero the image
// is returned unchanged.
func MorphEdge(img *imaging.Image, k, dilateN, erodeN int) (*imaging.Image, error) {
	if err := imaging.RequireImage(img, "morph edge"); err != nil {
		return nil, err
	}
	if dilateN < 0 || erodeN < 0 {
		return nil, fmt.Errorf("%w: negative iteration count (dilate=%d, erode=%d)",
			imaging.ErrInvalidArgument, dilateN, erodeN)
	}
	k = OddSize(k)
	entry := imaging.Entry("morph_edge", "ksize", k, "dilate", dilateN, "erode", erodeN)
	if dilateN == 0 && erodeN == 0 {
		return imaging.Derive(img, img.Kind(), img.Buffer(), entry), nil
	}
	return imaging.ApplyLumaBinary(img, entry, func(b imaging.Buffer) imaging.Buffer {
		return subtract(dilate(b, k/2, dilateN), erode(b, k/2, erodeN))
	}), nil
}

func erode(b imaging.Buffer, r, it int) imaging.Buffer {
	for i := 0; i < it; i++ {
		b = rankPass(b, r, func(a, c uint8) uint8 { return min(a, c) }, 255)
	}
	return b
}

func dilate(b imaging.Buffer, r, it int) imaging.Buffer {
	for i := 0; i < it; i++ {
		b = rankPass(b, r, func(a, c uint8) uint8 { return max(a, c) }, 0)
	}
	return b
}

// rankPass applies a separable square min or max filter of radius r to a
// single-channel buffer. Neighbors outside the image are skipped.
func rankPass(b imaging.Buffer, r int, pick func(a, c uint8) uint8, identity uint8) imaging.Buffer {
	if r == 0 {
		return b.Clone()
	}
	w, h := b.Width, b.Height
	tmp := imaging.NewBuffer(w, h, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := identity
			for dx := max(x-r, 0); dx <= min(x+r, w-1); dx++ {
				v = pick(v, b.Pix[y*w+dx])
			}
			tmp.Pix[y*w+x] = v
		}
	}
	out := imaging.NewBuffer(w, h, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := identity
			for dy := max(y-r, 0); dy <= min(y+r, h-1); dy++ {
				v = pick(v, tmp.Pix[dy*w+x])
			}
			out.Pix[y*w+x] = v
		}
	}
	return out
}

// subtract returns a - b saturated at 0.
func subtract(a, b imaging.Buffer) imaging.Buffer {
	out := imaging.NewBuffer(a.Width, a.Height, a.Channels)
	for i := range a.Pix {
		if a.Pix[i] > b.Pix[i] {
			out.Pix[i] = a.Pix[i] - b.Pix[i]
		}
	}
	return out
}
