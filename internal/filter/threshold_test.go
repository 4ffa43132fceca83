package filter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

func TestThreshold_Fixed(t *testing.T) {
	img := grayImage(t, [][]uint8{{0, 99, 100, 101, 255}})

	res, err := Threshold(img, 100, ThresholdFixed)
	require.NoError(t, err)

	assert.Equal(t, imaging.KindBinary, res.Image.Kind())
	assert.Equal(t, 100.0, res.Threshold)
	if diff := cmp.Diff([][]uint8{{0, 0, 0, 255, 255}}, pixels(res.Image)); diff != "" {
		t.Errorf("threshold mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "threshold(method=fixed, value=100)", res.Image.Log().Last())
}

func TestThreshold_Otsu(t *testing.T) {
	img := grayImage(t, [][]uint8{
		{10, 10, 12, 200},
		{11, 10, 201, 199},
	})
	res, err := Threshold(img, 0, ThresholdOtsu)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Threshold, 12.0)
	assert.Less(t, res.Threshold, 199.0)
	if diff := cmp.Diff([][]uint8{{0, 0, 0, 255}, {0, 0, 255, 255}}, pixels(res.Image)); diff != "" {
		t.Errorf("otsu mismatch (-want +got):\n%s", diff)
	}
}

func TestThreshold_Triangle(t *testing.T) {
	rows := [][]uint8{make([]uint8, 64)}
	for i := range rows[0] {
		switch {
		case i < 48:
			rows[0][i] = 20
		default:
			rows[0][i] = uint8(60 + i*3)
		}
	}
	res, err := Threshold(grayImage(t, rows), 0, ThresholdTriangle)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Threshold, 0.0)
	assert.LessOrEqual(t, res.Threshold, 255.0)
	assert.Equal(t, imaging.KindBinary, res.Image.Kind())
}

func TestThreshold_ColorUsesLuma(t *testing.T) {
	img := colorImage(t, 2, 2, rgb(200, 200, 200))
	res, err := Threshold(img, 128, ThresholdFixed)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Image.Channels())
	assert.True(t, allEqual(res.Image, 255))
}

func TestThreshold_Errors(t *testing.T) {
	img := grayImage(t, [][]uint8{{1}})
	_, err := Threshold(img, 0, "median")
	assert.True(t, errors.Is(err, imaging.ErrInvalidArgument))

	_, err = ParseThresholdMethod("bogus")
	assert.ErrorIs(t, err, imaging.ErrInvalidArgument)

	m, err := ParseThresholdMethod("")
	require.NoError(t, err)
	assert.Equal(t, ThresholdFixed, m)
}

func TestThreshold_IdempotentOnBinary(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("threshold of a binary image reproduces it", prop.ForAll(
		func(value int, seed int) bool {
			rows := make([][]uint8, 4)
			for y := range rows {
				rows[y] = make([]uint8, 5)
				for x := range rows[y] {
					if (x*7+y*3+seed)%3 == 0 {
						rows[y][x] = 255
					}
				}
			}
			img := binaryImage(t, rows)
			res, err := Threshold(img, float64(value), ThresholdFixed)
			if err != nil {
				return false
			}
			return cmp.Equal(pixels(img), pixels(res.Image))
		},
		gen.IntRange(0, 254),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

func TestAdaptiveThreshold(t *testing.T) {
	rows := make([][]uint8, 9)
	for y := range rows {
		rows[y] = make([]uint8, 9)
		for x := range rows[y] {
			rows[y][x] = 50
		}
	}
	rows[4][4] = 200
	img := grayImage(t, rows)

	out, err := AdaptiveThreshold(img, 4, 5, AdaptiveMean)
	require.NoError(t, err)
	assert.Equal(t, imaging.KindBinary, out.Kind())
	assert.Equal(t, "adaptive_threshold(block=5, c=5, method=mean)", out.Log().Last())

	got := pixels(out)
	assert.Equal(t, uint8(255), got[4][4], "bright spot above local mean")
	assert.Equal(t, uint8(255), got[0][0], "flat area passes with positive c")

	_, err = AdaptiveThreshold(img, 3, 0, "median")
	assert.ErrorIs(t, err, imaging.ErrInvalidArgument)

	g, err := AdaptiveThreshold(img, 1, 0, AdaptiveGaussian)
	require.NoError(t, err)
	assert.Contains(t, g.Log().Last(), "block=3")
}

func TestOtsuTriangleHelpers(t *testing.T) {
	var h [256]int
	h[10], h[200] = 5, 5
	got := otsu(h)
	assert.GreaterOrEqual(t, got, 10)
	assert.Less(t, got, 200)

	var single [256]int
	single[0] = 10
	assert.Equal(t, 0, otsu(single))
}
