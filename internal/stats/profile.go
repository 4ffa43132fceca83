package stats

import (
	"fmt"
	"math"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// ProfileResult holds the samples taken along a line segment.
type ProfileResult struct {
	Begin  imaging.Point `json:"begin"`
	End    imaging.Point `json:"end"`
	Length float64       `json:"length"`
	// X and Y are the integer pixel coordinates of the kept samples.
	X        []int            `json:"x"`
	Y        []int            `json:"y"`
	Channels []ProfileChannel `json:"channels"`
}

// ProfileChannel is the value sequence of one channel along the profile.
type ProfileChannel struct {
	Name    string    `json:"name"`
	Values  []float64 `json:"values"`
	Summary Summary   `json:"summary"`
}

// LineProfile samples img along the segment from begin to end.
//
// The segment is walked in n = floor(|end-begin|) unit steps, giving n+1
// parameter values t = i/n. Each sample point is rounded to the nearest
// pixel and skipped if it falls outside the image.
//
// Channels are B,G,R for Color images, the single plane for Gray and Binary,
// and the real and imaginary parts of the retained spectrum for Frequency
// images.
//
// Returns ErrDegenerateInput when begin equals end.
func LineProfile(img *imaging.Image, begin, end imaging.Point) (*ProfileResult, error) {
	if err := imaging.RequireImage(img, "line profile"); err != nil {
		return nil, err
	}
	if begin == end {
		return nil, fmt.Errorf("%w: line profile from %v to itself", imaging.ErrDegenerateInput, begin)
	}

	length := begin.Distance(end)
	n := int(math.Floor(length))
	res := &ProfileResult{Begin: begin, End: end, Length: length, X: []int{}, Y: []int{}}

	var sample func(x, y int) []float64
	var names []string
	if spec, ok := img.Spectrum(); ok {
		names = []string{"re", "im"}
		sample = func(x, y int) []float64 {
			i := y*spec.Width + x
			return []float64{spec.Re[i], spec.Im[i]}
		}
	} else {
		buf := img.Buffer()
		names = channelNames(buf.Channels, img.Kind().String())
		sample = func(x, y int) []float64 {
			out := make([]float64, buf.Channels)
			for c := range out {
				out[c] = float64(buf.At(x, y, c))
			}
			return out
		}
	}

	values := make([][]float64, len(names))
	for c := range values {
		values[c] = []float64{}
	}
	bounds := img.Bounds()
	dx := float64(end.X - begin.X)
	dy := float64(end.Y - begin.Y)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		x := int(math.Round(float64(begin.X) + t*dx))
		y := int(math.Round(float64(begin.Y) + t*dy))
		if x < bounds.Min.X || y < bounds.Min.Y || x >= bounds.Max.X || y >= bounds.Max.Y {
			continue
		}
		res.X = append(res.X, x)
		res.Y = append(res.Y, y)
		for c, v := range sample(x, y) {
			values[c] = append(values[c], v)
		}
	}

	for c, name := range names {
		res.Channels = append(res.Channels, ProfileChannel{
			Name:    name,
			Values:  values[c],
			Summary: Summarize(values[c]),
		})
	}
	return res, nil
}
