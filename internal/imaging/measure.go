package imaging

import (
	"fmt"
	"image"
	"math"
)

// Point represents a 2D pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
}

// Region is a rectangle given by its top-left (X1,Y1) and exclusive
// bottom-right (X2,Y2) corners. The zero Region means "the whole image".
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// IsZero reports whether r is the degenerate (0,0)-(0,0) region.
func (r Region) IsZero() bool { return r == Region{} }

// Rect converts to an image.Rectangle, normalizing swapped corners.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// Clip resolves r against a w×h image: the zero region becomes the full
// image, anything else is intersected with the image bounds. Returns
// ErrInvalidArgument when nothing remains.
func (r Region) Clip(w, h int) (image.Rectangle, error) {
	bounds := image.Rect(0, 0, w, h)
	if r.IsZero() {
		return bounds, nil
	}
	rect := r.Rect().Intersect(bounds)
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: region %s is empty inside %dx%d image",
			ErrInvalidArgument, r, w, h)
	}
	return rect, nil
}

// DistanceResult contains measurement information
type DistanceResult struct {
	DistancePixels        float64 `json:"distance_pixels"`
	DeltaX                int     `json:"delta_x"`
	DeltaY                int     `json:"delta_y"`
	AngleDegrees          float64 `json:"angle_degrees"`
	DistancePercentWidth  float64 `json:"distance_percent_width"`
	DistancePercentHeight float64 `json:"distance_percent_height"`
}

// MeasureDistance calculates the distance between two points of img.
func MeasureDistance(img *Image, a, b Point) (*DistanceResult, error) {
	if err := RequireImage(img, "measure distance"); err != nil {
		return nil, err
	}
	width := float64(img.Width())
	height := float64(img.Height())

	deltaX := b.X - a.X
	deltaY := b.Y - a.Y
	distance := a.Distance(b)

	// 0 = horizontal right, 90 = down
	angle := math.Atan2(float64(deltaY), float64(deltaX)) * 180 / math.Pi

	return &DistanceResult{
		DistancePixels:        math.Round(distance*100) / 100,
		DeltaX:                deltaX,
		DeltaY:                deltaY,
		AngleDegrees:          math.Round(angle*10) / 10,
		DistancePercentWidth:  math.Round(distance/width*1000) / 10,
		DistancePercentHeight: math.Round(distance/height*1000) / 10,
	}, nil
}

// AlignmentResult contains alignment check information
type AlignmentResult struct {
	HorizontallyAligned bool    `json:"horizontally_aligned"`
	VerticallyAligned   bool    `json:"vertically_aligned"`
	HorizontalVariance  float64 `json:"horizontal_variance"`
	VerticalVariance    float64 `json:"vertical_variance"`
	AverageY            float64 `json:"average_y"`
	AverageX            float64 `json:"average_x"`
}

// CheckAlignment checks if points are aligned horizontally or vertically.
// The reported variances are population standard deviations of the
// coordinates.
func CheckAlignment(points []Point, tolerance int) *AlignmentResult {
	if len(points) < 2 {
		return &AlignmentResult{
			HorizontallyAligned: true,
			VerticallyAligned:   true,
		}
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += float64(p.X)
		sumY += float64(p.Y)
	}
	avgX := sumX / float64(len(points))
	avgY := sumY / float64(len(points))

	var varX, varY float64
	for _, p := range points {
		dx := float64(p.X) - avgX
		dy := float64(p.Y) - avgY
		varX += dx * dx
		varY += dy * dy
	}
	varX = math.Sqrt(varX / float64(len(points)))
	varY = math.Sqrt(varY / float64(len(points)))

	return &AlignmentResult{
		HorizontallyAligned: varY <= float64(tolerance),
		VerticallyAligned:   varX <= float64(tolerance),
		HorizontalVariance:  math.Round(varY*100) / 100,
		VerticalVariance:    math.Round(varX*100) / 100,
		AverageY:            math.Round(avgY*100) / 100,
		AverageX:            math.Round(avgX*100) / 100,
	}
}

// CompareRegionsResult contains region comparison information
type CompareRegionsResult struct {
	SimilarityScore  float64 `json:"similarity_score"`
	PixelsDifferent  int     `json:"pixels_different"`
	TotalPixels      int     `json:"total_pixels"`
	SameSize         bool    `json:"same_size"`
	Region1Size      Point   `json:"region1_size"`
	Region2Size      Point   `json:"region2_size"`
	AverageColorDiff float64 `json:"average_color_diff"`
}

// CompareRegions compares two regions of an image pixel by pixel over their
// common top-left-aligned extent. A pixel counts as different when its mean
// absolute channel difference exceeds 10.
func CompareRegions(img *Image, r1, r2 Region) (*CompareRegionsResult, error) {
	if err := RequireImage(img, "compare regions"); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	rect1, rect2 := r1.Rect(), r2.Rect()
	if !rect1.In(bounds) || !rect2.In(bounds) || rect1.Empty() || rect2.Empty() {
		return nil, fmt.Errorf("%w: regions %s and %s must be non-empty and inside the image",
			ErrInvalidArgument, r1, r2)
	}

	w1, h1 := rect1.Dx(), rect1.Dy()
	w2, h2 := rect2.Dx(), rect2.Dy()
	minW := min(w1, w2)
	minH := min(h1, h2)

	totalPixels := minW * minH
	pixelsDifferent := 0
	var totalColorDiff float64
	ch := img.buf.Channels

	for dy := 0; dy < minH; dy++ {
		for dx := 0; dx < minW; dx++ {
			i := img.buf.Index(rect1.Min.X+dx, rect1.Min.Y+dy, 0)
			j := img.buf.Index(rect2.Min.X+dx, rect2.Min.Y+dy, 0)
			sum := 0
			for c := 0; c < ch; c++ {
				sum += absDiff(img.buf.Pix[i+c], img.buf.Pix[j+c])
			}
			diff := float64(sum) / float64(ch)
			totalColorDiff += diff
			if diff > 10 {
				pixelsDifferent++
			}
		}
	}

	similarity := 1.0 - float64(pixelsDifferent)/float64(totalPixels)
	avgColorDiff := totalColorDiff / float64(totalPixels)

	return &CompareRegionsResult{
		SimilarityScore:  math.Round(similarity*1000) / 1000,
		PixelsDifferent:  pixelsDifferent,
		TotalPixels:      totalPixels,
		SameSize:         w1 == w2 && h1 == h2,
		Region1Size:      Point{X: w1, Y: h1},
		Region2Size:      Point{X: w2, Y: h2},
		AverageColorDiff: math.Round(avgColorDiff*100) / 100,
	}, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
