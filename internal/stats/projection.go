package stats

import (
	"fmt"
	"strings"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Axis selects the direction a projection collapses.
type Axis int

const (
	// AxisRows sums along each row, giving one value per row.
	AxisRows Axis = iota
	// AxisColumns sums down each column, giving one value per column.
	AxisColumns
)

func (a Axis) String() string {
	if a == AxisColumns {
		return "columns"
	}
	return "rows"
}

// ParseAxis accepts "rows"/"row"/"y" and "columns"/"column"/"cols"/"x".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "rows", "row", "y":
		return AxisRows, nil
	case "columns", "column", "cols", "x":
		return AxisColumns, nil
	}
	return 0, fmt.Errorf("%w: unknown projection axis %q", imaging.ErrInvalidArgument, s)
}

// ProjectionResult holds per-row or per-column intensity sums.
type ProjectionResult struct {
	Region imaging.Region `json:"region"`
	Axis   string         `json:"axis"`
	// Index holds the absolute row (or column) number of each sum.
	Index    []int               `json:"index"`
	Channels []ProjectionChannel `json:"channels"`
}

// ProjectionChannel holds the sums of one channel and their summary.
type ProjectionChannel struct {
	Name    string    `json:"name"`
	Sums    []float64 `json:"sums"`
	Summary Summary   `json:"summary"`
}

// Projection sums pixel intensities of region along axis. Region handling
// matches Histogram.
func Projection(img *imaging.Image, region imaging.Region, axis Axis) (*ProjectionResult, error) {
	if err := imaging.RequireImage(img, "projection"); err != nil {
		return nil, err
	}
	if axis != AxisRows && axis != AxisColumns {
		return nil, fmt.Errorf("%w: projection axis %d", imaging.ErrInvalidArgument, int(axis))
	}
	rect, err := region.Clip(img.Width(), img.Height())
	if err != nil {
		return nil, err
	}

	buf := img.Buffer()
	res := &ProjectionResult{
		Region: imaging.Region{X1: rect.Min.X, Y1: rect.Min.Y, X2: rect.Max.X, Y2: rect.Max.Y},
		Axis:   axis.String(),
	}
	outer, inner := rect.Dy(), rect.Dx()
	if axis == AxisColumns {
		outer, inner = inner, outer
	}
	for i := 0; i < outer; i++ {
		if axis == AxisRows {
			res.Index = append(res.Index, rect.Min.Y+i)
		} else {
			res.Index = append(res.Index, rect.Min.X+i)
		}
	}

	for c, name := range channelNames(buf.Channels, img.Kind().String()) {
		sums := make([]float64, outer)
		for i := 0; i < outer; i++ {
			for j := 0; j < inner; j++ {
				x, y := rect.Min.X+j, rect.Min.Y+i
				if axis == AxisColumns {
					x, y = rect.Min.X+i, rect.Min.Y+j
				}
				sums[i] += float64(buf.At(x, y, c))
			}
		}
		res.Channels = append(res.Channels, ProjectionChannel{
			Name:    name,
			Sums:    sums,
			Summary: Summarize(sums),
		})
	}
	return res, nil
}
