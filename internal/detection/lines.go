package detection

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/ironsheep/image-pipeline/internal/filter"
	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// MaxLines caps the number of lines or segments reported, strongest first.
const MaxLines = 50

// Edge thresholds used when a detector has to find edges itself.
const (
	DefaultCannyLow  = 50
	DefaultCannyHigh = 150
)

// PolarLine is an infinite line x·cos(Theta) + y·sin(Theta) = Rho.
type PolarLine struct {
	Rho   float64 `json:"rho"`
	Theta float64 `json:"theta"`
	Votes int     `json:"votes"`
}

// Segment is a finite line segment between two edge pixels. Start is the
// endpoint with the smaller X (smaller Y on ties).
type Segment struct {
	Start  imaging.Point `json:"start"`
	End    imaging.Point `json:"end"`
	Length float64       `json:"length"`
}

// LinesResult holds the overlay and the detected lines.
type LinesResult struct {
	Image *imaging.Image
	Lines []PolarLine
}

// SegmentsResult holds the overlay and the detected segments.
type SegmentsResult struct {
	Image    *imaging.Image
	Segments []Segment
}

// accumulator is a Hough vote table indexed [rhoIdx*numAngles + thetaIdx].
type accumulator struct {
	rhoStep   float64
	thetaStep float64
	numRho    int
	numAngles int
	offset    int
	votes     []int
	cos, sin  []float64
}

func newAccumulator(w, h int, rho, theta float64) (*accumulator, error) {
	if !(rho > 0) || !(theta > 0) || theta > math.Pi {
		return nil, fmt.Errorf("%w: hough resolution rho=%g theta=%g", imaging.ErrInvalidArgument, rho, theta)
	}
	diag := math.Hypot(float64(w), float64(h))
	a := &accumulator{
		rhoStep:   rho,
		thetaStep: theta,
		numAngles: max(int(math.Round(math.Pi/theta)), 1),
	}
	a.offset = int(math.Ceil(diag / rho))
	a.numRho = 2*a.offset + 1
	a.votes = make([]int, a.numRho*a.numAngles)
	a.cos = make([]float64, a.numAngles)
	a.sin = make([]float64, a.numAngles)
	for t := range a.cos {
		a.cos[t] = math.Cos(float64(t) * theta)
		a.sin[t] = math.Sin(float64(t) * theta)
	}
	return a, nil
}

func (a *accumulator) vote(x, y int) {
	for t := 0; t < a.numAngles; t++ {
		r := int(math.Round((float64(x)*a.cos[t]+float64(y)*a.sin[t])/a.rhoStep)) + a.offset
		a.votes[r*a.numAngles+t]++
	}
}

type peak struct {
	rho, theta, votes int
}

// peaks returns cells with at least threshold votes that are local maxima
// against their four neighbors, strongest first.
func (a *accumulator) peaks(threshold int) []peak {
	at := func(r, t int) int {
		if r < 0 || r >= a.numRho || t < 0 || t >= a.numAngles {
			return -1
		}
		return a.votes[r*a.numAngles+t]
	}
	var out []peak
	for r := 0; r < a.numRho; r++ {
		for t := 0; t < a.numAngles; t++ {
			v := a.votes[r*a.numAngles+t]
			if v < threshold || v == 0 {
				continue
			}
			if v > at(r, t-1) && v >= at(r, t+1) && v > at(r-1, t) && v >= at(r+1, t) {
				out = append(out, peak{rho: r, theta: t, votes: v})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].votes > out[j].votes })
	return out
}

func (a *accumulator) line(p peak) PolarLine {
	return PolarLine{
		Rho:   float64(p.rho-a.offset) * a.rhoStep,
		Theta: float64(p.theta) * a.thetaStep,
		Votes: p.votes,
	}
}

// HoughLines runs the standard Hough transform on a Binary image. rho and
// theta are the accumulator resolutions in pixels and radians; threshold is
// the minimum number of votes. At most MaxLines lines are returned.
func HoughLines(img *imaging.Image, rho, theta float64, threshold int, col color.Color) (*LinesResult, error) {
	if err := imaging.Require(img, "hough lines", imaging.KindBinary); err != nil {
		return nil, err
	}
	if threshold < 1 {
		return nil, fmt.Errorf("%w: hough threshold %d", imaging.ErrInvalidArgument, threshold)
	}
	edges := img.Buffer()
	acc, err := newAccumulator(edges.Width, edges.Height, rho, theta)
	if err != nil {
		return nil, err
	}
	forEachEdge(edges, acc.vote)

	lines := []PolarLine{}
	for _, p := range acc.peaks(threshold) {
		if len(lines) >= MaxLines {
			break
		}
		lines = append(lines, acc.line(p))
	}

	canvas := imaging.NewCanvas(img)
	reach := math.Hypot(float64(edges.Width), float64(edges.Height))
	for _, l := range lines {
		c, s := math.Cos(l.Theta), math.Sin(l.Theta)
		x0, y0 := l.Rho*c, l.Rho*s
		canvas.Line(
			int(math.Round(x0-reach*s)), int(math.Round(y0+reach*c)),
			int(math.Round(x0+reach*s)), int(math.Round(y0-reach*c)),
			overlayColor(col))
	}
	out := imaging.Derive(img, imaging.KindColor, canvas.Buffer(),
		imaging.Entry("hough_lines", "rho", rho, "theta", theta, "threshold", threshold, "found", len(lines)))
	return &LinesResult{Image: out, Lines: lines}, nil
}

// HoughSegments finds line segments: Hough peaks are traced back to the
// edge pixels lying on them, split wherever the gap between consecutive
// pixels exceeds maxGap, and kept when at least minLength long. Pixels
// claimed by a segment do not contribute to weaker peaks. Non-Binary input
// is reduced to Canny edges first.
func HoughSegments(img *imaging.Image, rho, theta float64, threshold int, minLength, maxGap float64, col color.Color) (*SegmentsResult, error) {
	if err := imaging.RequireImage(img, "hough segments"); err != nil {
		return nil, err
	}
	if threshold < 1 || minLength < 0 || maxGap < 0 {
		return nil, fmt.Errorf("%w: hough segments threshold=%d min_length=%g max_gap=%g",
			imaging.ErrInvalidArgument, threshold, minLength, maxGap)
	}
	edges := edgePlane(img)
	w := edges.Width
	acc, err := newAccumulator(w, edges.Height, rho, theta)
	if err != nil {
		return nil, err
	}
	forEachEdge(edges, acc.vote)

	claimed := make([]bool, len(edges.Pix))
	tolerance := math.Max(rho, 1)
	segments := []Segment{}
	for _, p := range acc.peaks(threshold) {
		if len(segments) >= MaxLines {
			break
		}
		l := acc.line(p)
		c, s := math.Cos(l.Theta), math.Sin(l.Theta)

		type onLine struct {
			i int
			t float64
		}
		var pts []onLine
		forEachEdge(edges, func(x, y int) {
			i := y*w + x
			if claimed[i] || math.Abs(float64(x)*c+float64(y)*s-l.Rho) >= tolerance {
				return
			}
			pts = append(pts, onLine{i: i, t: -float64(x)*s + float64(y)*c})
		})
		sort.Slice(pts, func(a, b int) bool { return pts[a].t < pts[b].t })

		for lo := 0; lo < len(pts) && len(segments) < MaxLines; {
			hi := lo
			for hi+1 < len(pts) && pts[hi+1].t-pts[hi].t <= maxGap+1 {
				hi++
			}
			a := imaging.Point{X: pts[lo].i % w, Y: pts[lo].i / w}
			b := imaging.Point{X: pts[hi].i % w, Y: pts[hi].i / w}
			if length := a.Distance(b); length >= minLength && hi > lo {
				for k := lo; k <= hi; k++ {
					claimed[pts[k].i] = true
				}
				segments = append(segments, newSegment(a, b))
			}
			lo = hi + 1
		}
	}

	canvas := imaging.NewCanvas(img)
	for _, sg := range segments {
		canvas.Line(sg.Start.X, sg.Start.Y, sg.End.X, sg.End.Y, overlayColor(col))
	}
	out := imaging.Derive(img, imaging.KindColor, canvas.Buffer(),
		imaging.Entry("hough_segments", "rho", rho, "theta", theta, "threshold", threshold,
			"min_length", minLength, "max_gap", maxGap, "found", len(segments)))
	return &SegmentsResult{Image: out, Segments: segments}, nil
}

func newSegment(a, b imaging.Point) Segment {
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	return Segment{Start: a, End: b, Length: math.Round(a.Distance(b)*10) / 10}
}

// edgePlane returns a {0,255} plane: Binary input as is, anything else
// through Canny with the default thresholds.
func edgePlane(img *imaging.Image) imaging.Buffer {
	if img.Kind() == imaging.KindBinary {
		return img.Buffer()
	}
	return filter.CannyPlane(imaging.Luma(img), DefaultCannyLow, DefaultCannyHigh)
}

func forEachEdge(edges imaging.Buffer, fn func(x, y int)) {
	for i, v := range edges.Pix {
		if v != 0 {
			fn(i%edges.Width, i/edges.Width)
		}
	}
}

func overlayColor(c color.Color) color.Color {
	if c == nil {
		return color.RGBA{R: 255, A: 255}
	}
	return c
}
