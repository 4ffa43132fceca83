package detection

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// ContourMode selects which borders Contours reports.
type ContourMode string

const (
	// ContourExternal reports only the outer borders of top-level
	// components.
	ContourExternal ContourMode = "external"
	// ContourTree reports every outer border and hole with full nesting.
	ContourTree ContourMode = "tree"
)

// ParseContourMode accepts "external" or "tree".
func ParseContourMode(s string) (ContourMode, error) {
	switch m := ContourMode(strings.ToLower(s)); m {
	case ContourExternal, ContourTree:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown contour mode %q", imaging.ErrInvalidArgument, s)
}

// Hierarchy links contour i to others by index: Next and Prev sibling,
// FirstChild and Parent. -1 means none.
type Hierarchy [4]int

// Indexes into a Hierarchy entry.
const (
	HierNext = iota
	HierPrev
	HierFirstChild
	HierParent
)

// ContoursResult holds the overlay, the border point lists and their
// hierarchy (Hierarchy[i] belongs to Contours[i]).
type ContoursResult struct {
	Image     *imaging.Image
	Contours  [][]imaging.Point
	Hierarchy []Hierarchy
}

// Contours traces the borders of the white regions of a Binary image with
// the Suzuki–Abe border following algorithm. Each contour lists its border
// pixels in tracing order.
func Contours(img *imaging.Image, mode ContourMode, col color.Color) (*ContoursResult, error) {
	if err := imaging.Require(img, "contours", imaging.KindBinary); err != nil {
		return nil, err
	}
	mode, err := ParseContourMode(string(mode))
	if err != nil {
		return nil, err
	}
	contours, hier := traceBorders(img.Buffer(), mode)

	canvas := imaging.NewCanvas(img)
	for _, c := range contours {
		for k, p := range c {
			q := c[(k+1)%len(c)]
			canvas.Line(p.X, p.Y, q.X, q.Y, overlayColor(col))
		}
	}
	out := imaging.Derive(img, imaging.KindColor, canvas.Buffer(),
		imaging.Entry("contours", "mode", mode, "found", len(contours)))
	return &ContoursResult{Image: out, Contours: contours, Hierarchy: hier}, nil
}

// Neighbor offsets (row, col) in counter-clockwise order starting east.
var ring = [8][2]int{
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1},
}

func direction(dr, dc int) int {
	for d, o := range ring {
		if o[0] == dr && o[1] == dc {
			return d
		}
	}
	panic("detection: not a neighbor offset")
}

type border struct {
	hole   bool
	parent int // NBD of the parent border; 1 is the frame
	points []imaging.Point
}

// traceBorders runs the border following pass over a {0,nonzero} plane.
func traceBorders(plane imaging.Buffer, mode ContourMode) ([][]imaging.Point, []Hierarchy) {
	w, h := plane.Width+2, plane.Height+2
	f := make([]int, w*h)
	for y := 0; y < plane.Height; y++ {
		for x := 0; x < plane.Width; x++ {
			if plane.Pix[y*plane.Width+x] != 0 {
				f[(y+1)*w+x+1] = 1
			}
		}
	}

	// borders[0] is unused, borders[1] is the frame.
	borders := []border{{}, {hole: true, parent: 0}}
	nbd := 1
	for i := 1; i < h-1; i++ {
		lnbd := 1
		for j := 1; j < w-1; j++ {
			p := i*w + j
			var start int // neighbor (i2, j2) as an index
			switch {
			case f[p] == 1 && f[p-1] == 0:
				nbd++
				start = p - 1
				borders = append(borders, border{hole: false})
			case f[p] >= 1 && f[p+1] == 0:
				nbd++
				start = p + 1
				if f[p] > 1 {
					lnbd = f[p]
				}
				borders = append(borders, border{hole: true})
			default:
				if f[p] != 0 && f[p] != 1 {
					lnbd = abs(f[p])
				}
				continue
			}

			b := &borders[nbd]
			prev := borders[lnbd]
			if b.hole == prev.hole {
				b.parent = prev.parent
			} else {
				b.parent = lnbd
			}
			b.points = follow(f, w, p, start, nbd)

			if f[p] != 1 {
				lnbd = abs(f[p])
			}
		}
	}
	return collect(borders, mode)
}

// follow traces one border starting at pixel p, whose zero neighbor start
// lies outside the region, and labels visited border pixels with nbd.
func follow(f []int, w, p, start, nbd int) []imaging.Point {
	at := func(q, d int) int { return q + ring[d][0]*w + ring[d][1] }
	dirOf := func(from, to int) int {
		dr, dc := to/w-from/w, to%w-from%w
		return direction(dr, dc)
	}
	point := func(q int) imaging.Point { return imaging.Point{X: q%w - 1, Y: q/w - 1} }

	// 3.1: clockwise from start for the first nonzero neighbor.
	d0 := dirOf(p, start)
	first := -1
	for k := 0; k < 8; k++ {
		q := at(p, (d0-k+8)%8)
		if f[q] != 0 {
			first = q
			break
		}
	}
	if first < 0 {
		f[p] = -nbd
		return []imaging.Point{point(p)}
	}

	points := []imaging.Point{point(p)}
	prev, cur := first, p
	for {
		// 3.3: counter-clockwise around cur, starting after prev.
		d := dirOf(cur, prev)
		eastZero := false
		next := -1
		for k := 1; k <= 8; k++ {
			dd := (d + k) % 8
			q := at(cur, dd)
			if f[q] != 0 {
				next = q
				break
			}
			if dd == 0 {
				eastZero = true
			}
		}
		// 3.4
		if eastZero {
			f[cur] = -nbd
		} else if f[cur] == 1 {
			f[cur] = nbd
		}
		// 3.5
		if next == p && cur == first {
			break
		}
		prev, cur = cur, next
		points = append(points, point(cur))
	}
	return points
}

// collect turns traced borders into output order with sibling and child
// links. In external mode only outer borders directly inside the frame
// survive.
func collect(borders []border, mode ContourMode) ([][]imaging.Point, []Hierarchy) {
	index := make(map[int]int)
	contours := [][]imaging.Point{}
	var nbds []int
	for n := 2; n < len(borders); n++ {
		b := borders[n]
		if mode == ContourExternal && (b.hole || b.parent != 1) {
			continue
		}
		index[n] = len(contours)
		contours = append(contours, b.points)
		nbds = append(nbds, n)
	}

	hier := make([]Hierarchy, len(contours))
	lastChild := make(map[int]int) // parent index (-1 for top level) -> last child index
	for i, n := range nbds {
		parent := -1
		if p, ok := index[borders[n].parent]; ok {
			parent = p
		}
		hier[i] = Hierarchy{-1, -1, -1, parent}
		if last, ok := lastChild[parent]; ok {
			hier[last][HierNext] = i
			hier[i][HierPrev] = last
		} else if parent >= 0 {
			hier[parent][HierFirstChild] = i
		}
		lastChild[parent] = i
	}
	return contours, hier
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
