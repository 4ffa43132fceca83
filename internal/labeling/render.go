package labeling

import (
	"image/color"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Result is a rendered labeling. Labels is the full, unfiltered label map;
// Stats and Centroids hold only the components with area strictly greater
// than the minimum size, densely re-indexed from 0. Num equals len(Stats).
type Result struct {
	Image     *imaging.Image
	Labels    []int32
	Num       int
	Stats     []Stat
	Centroids []Centroid
}

// Options controls overlay rendering.
type Options struct {
	// Color of boxes and label text. Zero value means red.
	Color color.Color
	// LabelSize is the font size in points; 0 uses imaging.DefaultLabelSize.
	LabelSize float64
}

const goldenAngle = 137.50776405003785

// ComponentColor returns the paint color for the i-th selected component.
// Hues advance by the golden angle so neighbors in id order contrast.
func ComponentColor(i int) color.Color {
	hue := math.Mod(float64(i)*goldenAngle, 360)
	r, g, b := colorful.Hsv(hue, 0.75, 0.95).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Paint labels img and recolors every pixel of each component whose area
// exceeds minSize. Other pixels keep their Binary value.
func Paint(img *imaging.Image, minSize, conn int) (*Result, error) {
	comps, err := Label(img, conn)
	if err != nil {
		return nil, err
	}
	res, remap := selectComponents(comps, minSize)

	// colors is indexed by raw id; unselected ids stay nil.
	colors := make([]color.Color, comps.Count()+1)
	for id, dense := range remap {
		colors[id] = ComponentColor(dense)
	}
	canvas := imaging.NewCanvas(img)
	canvas.Fill(func(x, y int) color.Color {
		return colors[comps.Labels[y*comps.Width+x]]
	})
	res.Image = imaging.Derive(img, imaging.KindColor, canvas.Buffer(),
		imaging.Entry("labeling_paint", "min_size", minSize, "conn", conn, "num", res.Num))
	return res, nil
}

// Overlay labels img and draws the bounding box and dense id of every
// component whose area exceeds minSize.
func Overlay(img *imaging.Image, minSize, conn int, opts Options) (*Result, error) {
	comps, err := Label(img, conn)
	if err != nil {
		return nil, err
	}
	res, _ := selectComponents(comps, minSize)

	col := opts.Color
	if col == nil {
		col = color.RGBA{R: 255, A: 255}
	}
	canvas := imaging.NewCanvas(img)
	for i, s := range res.Stats {
		canvas.Rect(s.Rect(), col)
		if err := canvas.Label(s.Left, s.Top, strconv.Itoa(i), opts.LabelSize, col, color.Black); err != nil {
			return nil, err
		}
	}
	res.Image = imaging.Derive(img, imaging.KindColor, canvas.Buffer(),
		imaging.Entry("labeling_overlay", "min_size", minSize, "conn", conn, "num", res.Num))
	return res, nil
}

// selectComponents keeps components with area > minSize. remap gives the
// dense index of each kept raw id.
func selectComponents(c *Components, minSize int) (*Result, map[int32]int) {
	res := &Result{
		Labels:    c.Labels,
		Stats:     []Stat{},
		Centroids: []Centroid{},
	}
	remap := make(map[int32]int)
	for i, s := range c.Stats {
		if s.Area <= minSize {
			continue
		}
		remap[int32(s.ID)] = len(res.Stats)
		res.Stats = append(res.Stats, s)
		res.Centroids = append(res.Centroids, c.Centroids[i])
	}
	res.Num = len(res.Stats)
	return res, remap
}
