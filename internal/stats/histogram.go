package stats

import (
	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"

	imgpkg "github.com/ironsheep/image-pipeline/internal/imaging"
)

// HistogramResult holds 256-bin histograms of a region, one per channel.
type HistogramResult struct {
	// Region is the resolved, clipped region the histogram covers.
	Region   imgpkg.Region      `json:"region"`
	Pixels   int                `json:"pixels"`
	Channels []HistogramChannel `json:"channels"`
}

// HistogramChannel is the histogram and summary of one channel.
type HistogramChannel struct {
	Name    string  `json:"name"`
	Bins    []int   `json:"bins"`
	Summary Summary `json:"summary"`
}

// Histogram counts sample values inside region. The zero region selects the
// whole image; any other region is clipped to the image bounds and must not
// be empty afterwards (ErrInvalidArgument). Frequency images are measured on
// their magnitude buffer.
func Histogram(img *imgpkg.Image, region imgpkg.Region) (*HistogramResult, error) {
	if err := imgpkg.RequireImage(img, "histogram"); err != nil {
		return nil, err
	}
	rect, err := region.Clip(img.Width(), img.Height())
	if err != nil {
		return nil, err
	}

	buf := img.Buffer()
	cropped := imaging.Crop(imgpkg.BufferToImage(buf), rect)
	h := histogram.NewRGBAHistogram(cropped)

	names := channelNames(buf.Channels, img.Kind().String())
	bins := [][]int{h.R.Bins}
	if buf.Channels == 3 {
		bins = [][]int{h.B.Bins, h.G.Bins, h.R.Bins}
	}

	res := &HistogramResult{
		Region: imgpkg.Region{X1: rect.Min.X, Y1: rect.Min.Y, X2: rect.Max.X, Y2: rect.Max.Y},
		Pixels: rect.Dx() * rect.Dy(),
	}
	for c, name := range names {
		values := make([]float64, 0, res.Pixels)
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				values = append(values, float64(buf.At(x, y, c)))
			}
		}
		res.Channels = append(res.Channels, HistogramChannel{
			Name:    name,
			Bins:    append([]int(nil), bins[c]...),
			Summary: Summarize(values),
		})
	}
	return res, nil
}

// PlaneBins counts the samples of a single-channel buffer into 256 bins.
func PlaneBins(plane imgpkg.Buffer) [256]int {
	var bins [256]int
	copy(bins[:], histogram.NewRGBAHistogram(imgpkg.BufferToImage(plane)).R.Bins)
	return bins
}
