package detection

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/ironsheep/image-pipeline/internal/filter"
	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Circle is a detected circle. Votes is the center's accumulator count.
type Circle struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	R     int `json:"r"`
	Votes int `json:"votes"`
}

// CirclesResult holds the overlay and the detected circles, strongest
// first.
type CirclesResult struct {
	Image   *imaging.Image
	Circles []Circle
}

// HoughCircles finds circles with gradient-directed Hough voting.
//
// Parameters:
//   - minDist: minimum distance between accepted centers.
//   - cannyHigh: upper Canny threshold; the lower one is half of it.
//   - votes: minimum accumulator count for a center.
//   - minR, maxR: radius range. maxR <= 0 means half the smaller image side.
//
// # Algorithm
//
//  1. Canny edges and the smoothed Sobel gradient of the luma plane.
//  2. Every edge pixel votes for centers along its gradient, in both
//     directions, at every distance in [minR, maxR].
//  3. Local maxima with at least votes are accepted strongest first,
//     skipping any closer than minDist to an accepted center.
//  4. Each center takes the radius most edge pixels lie at.
func HoughCircles(img *imaging.Image, minDist, cannyHigh float64, votes, minR, maxR int, col color.Color) (*CirclesResult, error) {
	if err := imaging.RequireImage(img, "hough circles"); err != nil {
		return nil, err
	}
	w, h := img.Width(), img.Height()
	if maxR <= 0 {
		maxR = min(w, h) / 2
	}
	if !(minDist > 0) || !(cannyHigh > 0) || votes < 1 || minR < 0 || maxR < minR {
		return nil, fmt.Errorf("%w: hough circles min_dist=%g canny=%g votes=%d radius=[%d,%d]",
			imaging.ErrInvalidArgument, minDist, cannyHigh, votes, minR, maxR)
	}

	plane := imaging.Luma(img)
	edges := filter.CannyPlane(plane, cannyHigh/2, cannyHigh)
	grad := filter.SmoothedGradient(plane)

	acc := make([]int, w*h)
	forEachEdge(edges, func(x, y int) {
		i := y*w + x
		mag := grad.Magnitude(i)
		if mag == 0 {
			return
		}
		dx, dy := grad.X[i]/mag, grad.Y[i]/mag
		for _, sign := range [2]float64{1, -1} {
			for r := minR; r <= maxR; r++ {
				cx := int(math.Round(float64(x) + sign*float64(r)*dx))
				cy := int(math.Round(float64(y) + sign*float64(r)*dy))
				if cx < 0 || cy < 0 || cx >= w || cy >= h {
					break
				}
				acc[cy*w+cx]++
			}
		}
	})

	type candidate struct{ i, votes int }
	var cands []candidate
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			v := acc[i]
			if v < votes {
				continue
			}
			if (x > 0 && acc[i-1] > v) || (x < w-1 && acc[i+1] > v) ||
				(y > 0 && acc[i-w] > v) || (y < h-1 && acc[i+w] > v) {
				continue
			}
			cands = append(cands, candidate{i: i, votes: v})
		}
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].votes > cands[b].votes })

	circles := []Circle{}
	hist := make([]int, maxR+1)
	for _, c := range cands {
		cx, cy := c.i%w, c.i/w
		if tooClose(circles, cx, cy, minDist) {
			continue
		}
		clear(hist)
		forEachEdge(edges, func(x, y int) {
			d := int(math.Round(math.Hypot(float64(x-cx), float64(y-cy))))
			if d >= minR && d <= maxR {
				hist[d]++
			}
		})
		best := minR
		for r := minR; r <= maxR; r++ {
			if hist[r] > hist[best] {
				best = r
			}
		}
		if hist[best] == 0 {
			continue
		}
		circles = append(circles, Circle{X: cx, Y: cy, R: best, Votes: c.votes})
	}

	canvas := imaging.NewCanvas(img)
	for _, c := range circles {
		canvas.Circle(c.X, c.Y, c.R, overlayColor(col))
		canvas.Set(c.X, c.Y, overlayColor(col))
	}
	out := imaging.Derive(img, imaging.KindColor, canvas.Buffer(),
		imaging.Entry("hough_circles", "min_dist", minDist, "canny", cannyHigh, "votes", votes,
			"min_r", minR, "max_r", maxR, "found", len(circles)))
	return &CirclesResult{Image: out, Circles: circles}, nil
}

func tooClose(circles []Circle, x, y int, minDist float64) bool {
	for _, c := range circles {
		if math.Hypot(float64(c.X-x), float64(c.Y-y)) < minDist {
			return true
		}
	}
	return false
}

// Rectangle is an axis-aligned box found from an external contour.
//
// Confidence compares the contour length to the perimeter of its bounding
// box: 1 - |length - 2(w+h)| / 2(w+h). An outlined rectangle scores 1.
type Rectangle struct {
	Bounds     image.Rectangle `json:"bounds"`
	Center     imaging.Point   `json:"center"`
	Area       int             `json:"area"`
	Confidence float64         `json:"confidence"`
}

// RectanglesResult holds the overlay and the detected rectangles, largest
// first.
type RectanglesResult struct {
	Image      *imaging.Image
	Rectangles []Rectangle
}

// Rectangles finds rectangular outlines. Binary input is used as is; other
// kinds are reduced to Canny edges. Boxes smaller than minArea or scoring
// below tolerance are dropped.
func Rectangles(img *imaging.Image, minArea int, tolerance float64, col color.Color) (*RectanglesResult, error) {
	if err := imaging.RequireImage(img, "rectangles"); err != nil {
		return nil, err
	}
	edges := edgePlane(img)
	contours, _ := traceBorders(edges, ContourExternal)

	rects := []Rectangle{}
	for _, c := range contours {
		if len(c) < 4 {
			continue
		}
		minX, minY, maxX, maxY := c[0].X, c[0].Y, c[0].X, c[0].Y
		for _, p := range c {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
		rw, rh := maxX-minX, maxY-minY
		area := rw * rh
		if area < minArea || rw == 0 || rh == 0 {
			continue
		}
		perimeter := float64(2 * (rw + rh))
		score := 1 - math.Abs(float64(len(c))-perimeter)/perimeter
		if score < tolerance {
			continue
		}
		rects = append(rects, Rectangle{
			Bounds:     image.Rect(minX, minY, maxX+1, maxY+1),
			Center:     imaging.Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
			Area:       area,
			Confidence: math.Round(score*1000) / 1000,
		})
	}
	sort.SliceStable(rects, func(i, j int) bool { return rects[i].Area > rects[j].Area })

	canvas := imaging.NewCanvas(img)
	for _, r := range rects {
		canvas.Rect(r.Bounds, overlayColor(col))
	}
	out := imaging.Derive(img, imaging.KindColor, canvas.Buffer(),
		imaging.Entry("rectangles", "min_area", minArea, "tolerance", tolerance, "found", len(rects)))
	return &RectanglesResult{Image: out, Rectangles: rects}, nil
}
