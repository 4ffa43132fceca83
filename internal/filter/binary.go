package filter

import "github.com/ironsheep/image-pipeline/internal/imaging"

// Thinning reduces every white region of a Binary image to a one-pixel wide
// skeleton (Zhang–Suen). Pixels outside the image count as black.
func Thinning(img *imaging.Image) (*imaging.Image, error) {
	if err := imaging.Require(img, "thinning", imaging.KindBinary); err != nil {
		return nil, err
	}
	b := img.Buffer()
	w, h := b.Width, b.Height
	on := func(x, y int) int {
		if x < 0 || y < 0 || x >= w || y >= h || b.Pix[y*w+x] == 0 {
			return 0
		}
		return 1
	}

	var remove []int
	for changed := true; changed; {
		changed = false
		for step := 0; step < 2; step++ {
			remove = remove[:0]
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if b.Pix[y*w+x] == 0 {
						continue
					}
					// P2..P9 clockwise from north.
					p := [8]int{
						on(x, y-1), on(x+1, y-1), on(x+1, y), on(x+1, y+1),
						on(x, y+1), on(x-1, y+1), on(x-1, y), on(x-1, y-1),
					}
					n, transitions := 0, 0
					for i := range p {
						n += p[i]
						if p[i] == 0 && p[(i+1)%8] == 1 {
							transitions++
						}
					}
					if n < 2 || n > 6 || transitions != 1 {
						continue
					}
					if step == 0 && (p[0]*p[2]*p[4] != 0 || p[2]*p[4]*p[6] != 0) {
						continue
					}
					if step == 1 && (p[0]*p[2]*p[6] != 0 || p[0]*p[4]*p[6] != 0) {
						continue
					}
					remove = append(remove, y*w+x)
				}
			}
			for _, i := range remove {
				b.Pix[i] = 0
			}
			changed = changed || len(remove) > 0
		}
	}
	return imaging.Derive(img, imaging.KindBinary, b, imaging.Entry("thinning")), nil
}

// RemoveIsolatedWhite clears white pixels none of whose in-bounds
// 8-neighbors is white.
func RemoveIsolatedWhite(img *imaging.Image) (*imaging.Image, error) {
	if err := imaging.Require(img, "remove isolated white", imaging.KindBinary); err != nil {
		return nil, err
	}
	return imaging.Derive(img, imaging.KindBinary, removeIsolated(img.Buffer(), 255),
		imaging.Entry("remove_isolated_white")), nil
}

// RemoveIsolatedBlack fills black pixels none of whose in-bounds
// 8-neighbors is black.
func RemoveIsolatedBlack(img *imaging.Image) (*imaging.Image, error) {
	if err := imaging.Require(img, "remove isolated black", imaging.KindBinary); err != nil {
		return nil, err
	}
	return imaging.Derive(img, imaging.KindBinary, removeIsolated(img.Buffer(), 0),
		imaging.Entry("remove_isolated_black")), nil
}

// removeIsolated flips pixels equal to target whose neighbors all differ
// from it. Decisions are made on the source, not the partially updated
// result.
func removeIsolated(src imaging.Buffer, target uint8) imaging.Buffer {
	w, h := src.Width, src.Height
	out := src.Clone()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.Pix[y*w+x] != target {
				continue
			}
			isolated := true
			for dy := -1; dy <= 1 && isolated; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if (dx == 0 && dy == 0) || !src.Inside(x+dx, y+dy) {
						continue
					}
					if src.Pix[(y+dy)*w+x+dx] == target {
						isolated = false
						break
					}
				}
			}
			if isolated {
				out.Pix[y*w+x] = 255 - target
			}
		}
	}
	return out
}
