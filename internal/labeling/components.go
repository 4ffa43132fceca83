package labeling

import (
	"fmt"
	"image"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Stat describes one connected component.
type Stat struct {
	ID     int `json:"id"`
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Area   int `json:"area"`
}

// Rect returns the component's bounding box.
func (s Stat) Rect() image.Rectangle {
	return image.Rect(s.Left, s.Top, s.Left+s.Width, s.Top+s.Height)
}

// Centroid is the mean pixel position of a component.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Components is the raw labeling of a Binary image. Labels holds one id per
// pixel in row-major order, 0 for background. Stats[i] and Centroids[i]
// describe component id i+1; ids follow raster order of each component's
// first pixel.
type Components struct {
	Width     int
	Height    int
	Labels    []int32
	Stats     []Stat
	Centroids []Centroid
}

// Count returns the number of components, background excluded.
func (c *Components) Count() int { return len(c.Stats) }

// Label finds the connected components of a Binary image. conn selects 4- or
// 8-connectivity.
func Label(img *imaging.Image, conn int) (*Components, error) {
	if err := imaging.Require(img, "connected components", imaging.KindBinary); err != nil {
		return nil, err
	}
	offsets, err := neighborOffsets(conn)
	if err != nil {
		return nil, err
	}

	buf := img.Buffer()
	w, h := buf.Width, buf.Height
	out := &Components{
		Width:     w,
		Height:    h,
		Labels:    make([]int32, w*h),
		Stats:     []Stat{},
		Centroids: []Centroid{},
	}

	var stack []int
	for start, v := range buf.Pix {
		if v == 0 || out.Labels[start] != 0 {
			continue
		}
		id := int32(len(out.Stats) + 1)
		out.Labels[start] = id
		stack = append(stack[:0], start)

		minX, minY, maxX, maxY := w, h, -1, -1
		var area int
		var sumX, sumY float64
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			area++
			sumX += float64(x)
			sumY += float64(y)
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)

			for _, d := range offsets {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if buf.Pix[j] != 0 && out.Labels[j] == 0 {
					out.Labels[j] = id
					stack = append(stack, j)
				}
			}
		}

		out.Stats = append(out.Stats, Stat{
			ID:     int(id),
			Left:   minX,
			Top:    minY,
			Width:  maxX - minX + 1,
			Height: maxY - minY + 1,
			Area:   area,
		})
		out.Centroids = append(out.Centroids, Centroid{X: sumX / float64(area), Y: sumY / float64(area)})
	}
	return out, nil
}

func neighborOffsets(conn int) ([][2]int, error) {
	switch conn {
	case 4:
		return [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}, nil
	case 8:
		return [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}, nil
	}
	return nil, fmt.Errorf("%w: connectivity must be 4 or 8, got %d", imaging.ErrInvalidArgument, conn)
}
