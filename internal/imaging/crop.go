package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Interpolation selects the resampling filter used by Resize.
type Interpolation int

// Interpolation filters, named nearest, linear, cubic (Catmull-Rom),
// lanczos and area (box average).
const (
	InterpNearest Interpolation = iota
	InterpLinear
	InterpCubic
	InterpLanczos
	InterpArea
)

var interpolationNames = map[Interpolation]string{
	InterpNearest: "nearest",
	InterpLinear:  "linear",
	InterpCubic:   "cubic",
	InterpLanczos: "lanczos",
	InterpArea:    "area",
}

func (i Interpolation) String() string {
	if s, ok := interpolationNames[i]; ok {
		return s
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

// ParseInterpolation accepts the names printed by Interpolation.String.
func ParseInterpolation(s string) (Interpolation, error) {
	for k, v := range interpolationNames {
		if strings.EqualFold(s, v) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown interpolation %q", ErrInvalidArgument, s)
}

func (i Interpolation) filter() imaging.ResampleFilter {
	switch i {
	case InterpLinear:
		return imaging.Linear
	case InterpCubic:
		return imaging.CatmullRom
	case InterpLanczos:
		return imaging.Lanczos
	case InterpArea:
		return imaging.Box
	}
	return imaging.NearestNeighbor
}

// Resize scales an image by independent horizontal and vertical factors.
//
// Binary images are always resampled with nearest-neighbour interpolation so
// the result stays in {0,255}. Frequency images resize their magnitude only
// and come back as Gray.
func Resize(img *Image, fx, fy float64, interp Interpolation) (*Image, error) {
	if err := RequireImage(img, "resize"); err != nil {
		return nil, err
	}
	if fx <= 0 || fy <= 0 || math.IsNaN(fx) || math.IsNaN(fy) {
		return nil, fmt.Errorf("%w: resize factors %gx%g", ErrInvalidArgument, fx, fy)
	}
	if _, ok := interpolationNames[interp]; !ok {
		return nil, fmt.Errorf("%w: interpolation %d", ErrInvalidArgument, int(interp))
	}
	if img.kind == KindBinary {
		interp = InterpNearest
	}

	w := max(1, int(math.Round(float64(img.buf.Width)*fx)))
	h := max(1, int(math.Round(float64(img.buf.Height)*fy)))
	resized := imaging.Resize(BufferToImage(img.buf), w, h, interp.filter())

	kind := img.kind
	if kind == KindFrequency {
		kind = KindGray
	}
	entry := Entry("resize", "fx", fx, "fy", fy, "interpolation", interp, "size", fmt.Sprintf("%dx%d", w, h))
	return Derive(img, kind, BufferFromImage(resized, img.buf.Channels), entry), nil
}

// Crop extracts a rectangular region. The rectangle must lie inside the
// image and be non-empty.
func Crop(img *Image, rect image.Rectangle) (*Image, error) {
	if err := RequireImage(img, "crop"); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	if !rect.In(bounds) {
		return nil, fmt.Errorf("%w: crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			ErrInvalidArgument, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y,
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if rect.Empty() {
		return nil, fmt.Errorf("%w: invalid crop region: x1 must be < x2, y1 must be < y2", ErrInvalidArgument)
	}

	cropped := imaging.Crop(BufferToImage(img.buf), rect)

	kind := img.kind
	if kind == KindFrequency {
		kind = KindGray
	}
	entry := Entry("crop", "x1", rect.Min.X, "y1", rect.Min.Y, "x2", rect.Max.X, "y2", rect.Max.Y)
	return Derive(img, kind, BufferFromImage(cropped, img.buf.Channels), entry), nil
}

// QuadrantRect resolves a named region of a w×h image: "top-left",
// "top-right", "bottom-left", "bottom-right", the four halves and "center"
// (the middle 50% in each direction).
func QuadrantRect(w, h int, region string) (image.Rectangle, error) {
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int

	switch region {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return image.Rectangle{}, fmt.Errorf("%w: unknown region: %s", ErrInvalidArgument, region)
	}
	return image.Rect(x1, y1, x2, y2), nil
}

// CropQuadrant extracts a named region from an image; see QuadrantRect.
func CropQuadrant(img *Image, region string) (*Image, error) {
	if err := RequireImage(img, "crop"); err != nil {
		return nil, err
	}
	rect, err := QuadrantRect(img.buf.Width, img.buf.Height, region)
	if err != nil {
		return nil, err
	}
	return Crop(img, rect)
}
