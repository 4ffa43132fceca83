package imaging

import (
	"fmt"
	"image/color"
	"strings"
)

// Require checks that img is non-nil and of one of the given kinds. It
// returns a *KindError (matching ErrPrecondition) otherwise.
func Require(img *Image, op string, kinds ...Kind) error {
	if img == nil {
		return fmt.Errorf("%w: %s: nil image", ErrInvalidArgument, op)
	}
	for _, k := range kinds {
		if img.kind == k {
			return nil
		}
	}
	return &KindError{Op: op, Got: img.kind, Want: kinds}
}

// RequireImage only checks for a nil image; kind-polymorphic operations use it.
func RequireImage(img *Image, op string) error {
	if img == nil {
		return fmt.Errorf("%w: %s: nil image", ErrInvalidArgument, op)
	}
	return nil
}

// ApplyLuma runs a single-channel transform the way every kind-polymorphic
// tone or smoothing operation does:
//
//   - Color: the image is split into Y, Cr and Cb planes, fn transforms Y,
//     and the planes are recombined. Chroma is never touched.
//   - Gray, Binary, Frequency: fn transforms the buffer directly. The result
//     is Gray because fn may leave the {0,255} domain; Frequency results lose
//     their spectrum.
//
// fn receives its own copy of the plane and may modify it in place.
func ApplyLuma(img *Image, entry string, fn func(Buffer) Buffer) *Image {
	switch img.kind {
	case KindColor:
		y, cr, cb := SplitYCrCb(img.buf)
		return Derive(img, KindColor, MergeYCrCb(fn(y), cr, cb), entry)
	case KindGray, KindBinary, KindFrequency:
		return Derive(img, KindGray, fn(img.buf.Clone()), entry)
	}
	panic(fmt.Sprintf("imaging: unhandled kind %s", img.kind))
}

// ApplyLumaBinary is ApplyLuma for transforms that map {0,255} onto itself
// (morphology, inversion): Binary input stays Binary.
func ApplyLumaBinary(img *Image, entry string, fn func(Buffer) Buffer) *Image {
	if img.kind == KindBinary {
		return Derive(img, KindBinary, fn(img.buf.Clone()), entry)
	}
	return ApplyLuma(img, entry, fn)
}

// Luma returns the brightness plane of any image: BT.601 luma for Color, a
// copy of the buffer otherwise.
func Luma(img *Image) Buffer {
	if img.kind == KindColor {
		y, _, _ := SplitYCrCb(img.buf)
		return y
	}
	return img.buf.Clone()
}

// SplitYCrCb decomposes a B,G,R buffer into full-range Y, Cr and Cb planes
// (JFIF / BT.601 coefficients).
func SplitYCrCb(buf Buffer) (y, cr, cb Buffer) {
	n := buf.Width * buf.Height
	y = NewBuffer(buf.Width, buf.Height, 1)
	cr = NewBuffer(buf.Width, buf.Height, 1)
	cb = NewBuffer(buf.Width, buf.Height, 1)
	for i := 0; i < n; i++ {
		b, g, r := buf.Pix[i*3], buf.Pix[i*3+1], buf.Pix[i*3+2]
		y.Pix[i], cb.Pix[i], cr.Pix[i] = color.RGBToYCbCr(r, g, b)
	}
	return y, cr, cb
}

// MergeYCrCb recombines luma and chroma planes into a B,G,R buffer.
func MergeYCrCb(y, cr, cb Buffer) Buffer {
	out := NewBuffer(y.Width, y.Height, 3)
	for i := 0; i < y.Width*y.Height; i++ {
		r, g, b := color.YCbCrToRGB(y.Pix[i], cb.Pix[i], cr.Pix[i])
		out.Pix[i*3], out.Pix[i*3+1], out.Pix[i*3+2] = b, g, r
	}
	return out
}

// ColorBuffer returns a 3-channel copy of the image suitable for drawing
// overlays: Color is copied, single-channel buffers are replicated.
func ColorBuffer(img *Image) Buffer {
	if img.buf.Channels == 3 {
		return img.buf.Clone()
	}
	src := img.buf
	out := NewBuffer(src.Width, src.Height, 3)
	for i, v := range src.Pix {
		out.Pix[i*3], out.Pix[i*3+1], out.Pix[i*3+2] = v, v, v
	}
	return out
}

// Entry formats a provenance log entry: Entry("blur", "ksize", 5) yields
// "blur(ksize=5)".
func Entry(op string, kv ...any) string {
	var sb strings.Builder
	sb.WriteString(op)
	sb.WriteByte('(')
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v=%v", kv[i], kv[i+1])
	}
	sb.WriteByte(')')
	return sb.String()
}
