package stats

import (
	"fmt"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// NeighborhoodResult is the square patch of samples around a pixel.
type NeighborhoodResult struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
	// Size is the patch edge length, 2*Radius+1.
	Size int `json:"size"`
	// Channels holds one row-major Size×Size patch per channel. Samples
	// outside the image are 0.
	Channels []NeighborhoodChannel `json:"channels"`
}

// NeighborhoodChannel is the patch of one channel.
type NeighborhoodChannel struct {
	Name    string  `json:"name"`
	Values  [][]int `json:"values"`
	Summary Summary `json:"summary"`
}

// Neighborhood returns the (2r+1)×(2r+1) patch centered on (x, y),
// zero-padded at the image borders. The center itself may lie outside the
// image. Frequency images are sampled on their magnitude buffer.
func Neighborhood(img *imaging.Image, x, y, radius int) (*NeighborhoodResult, error) {
	if err := imaging.RequireImage(img, "neighborhood"); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: neighborhood radius %d", imaging.ErrInvalidArgument, radius)
	}

	buf := img.Buffer()
	size := 2*radius + 1
	names := channelNames(buf.Channels, img.Kind().String())
	res := &NeighborhoodResult{X: x, Y: y, Radius: radius, Size: size}

	for c, name := range names {
		rows := make([][]int, size)
		flat := make([]float64, 0, size*size)
		for dy := -radius; dy <= radius; dy++ {
			row := make([]int, size)
			for dx := -radius; dx <= radius; dx++ {
				px, py := x+dx, y+dy
				if buf.Inside(px, py) {
					row[dx+radius] = int(buf.At(px, py, c))
				}
				flat = append(flat, float64(row[dx+radius]))
			}
			rows[dy+radius] = row
		}
		res.Channels = append(res.Channels, NeighborhoodChannel{
			Name:    name,
			Values:  rows,
			Summary: Summarize(flat),
		})
	}
	return res, nil
}
