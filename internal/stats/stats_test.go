package stats

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

func grayImage(t *testing.T, rows [][]uint8) *imaging.Image {
	t.Helper()
	w, h := len(rows[0]), len(rows)
	buf := imaging.NewBuffer(w, h, 1)
	for y, row := range rows {
		copy(buf.Pix[y*w:], row)
	}
	img, err := imaging.New(buf, imaging.KindGray, "gray")
	require.NoError(t, err)
	return img
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []float64{7}, Summary{Mean: 7, Std: 0, Median: 7, Max: 7, Min: 7}},
		{"odd count", []float64{3, 1, 2}, Summary{Mean: 2, Std: math.Sqrt(2.0 / 3.0), Median: 2, Max: 3, Min: 1}},
		// Population std of {2,4,4,4,5,5,7,9} is exactly 2; the midpoint
		// median of an even count averages the two middle values.
		{"even count", []float64{2, 4, 4, 4, 5, 5, 7, 9}, Summary{Mean: 5, Std: 2, Median: 4.5, Max: 9, Min: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			assert.InDelta(t, tt.want.Mean, got.Mean, 1e-12)
			assert.InDelta(t, tt.want.Std, got.Std, 1e-12)
			assert.Equal(t, tt.want.Median, got.Median)
			assert.Equal(t, tt.want.Max, got.Max)
			assert.Equal(t, tt.want.Min, got.Min)
		})
	}
}

func TestSummarize_DoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestNeighborhood(t *testing.T) {
	img := grayImage(t, [][]uint8{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})

	res, err := Neighborhood(img, 0, 0, 1)
	require.NoError(t, err)
	require.Len(t, res.Channels, 1)
	assert.Equal(t, 3, res.Size)

	want := [][]int{
		{0, 0, 0},
		{0, 1, 2},
		{0, 4, 5},
	}
	if diff := cmp.Diff(want, res.Channels[0].Values); diff != "" {
		t.Errorf("corner patch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5.0, res.Channels[0].Summary.Max)

	res, err = Neighborhood(img, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{5}}, res.Channels[0].Values)

	_, err = Neighborhood(img, 1, 1, -1)
	assert.ErrorIs(t, err, imaging.ErrInvalidArgument)
}

func TestNeighborhood_Color(t *testing.T) {
	img, err := imaging.Blank(3, 3, color.RGBA{R: 9, G: 8, B: 7, A: 255}, "c")
	require.NoError(t, err)

	res, err := Neighborhood(img, 1, 1, 1)
	require.NoError(t, err)
	require.Len(t, res.Channels, 3)
	assert.Equal(t, []string{"B", "G", "R"},
		[]string{res.Channels[0].Name, res.Channels[1].Name, res.Channels[2].Name})
	assert.Equal(t, 7, res.Channels[0].Values[1][1])
	assert.Equal(t, 9, res.Channels[2].Values[2][2])
}

func TestLineProfile(t *testing.T) {
	img := grayImage(t, [][]uint8{
		{0, 10, 20, 30, 40},
		{50, 60, 70, 80, 90},
	})

	res, err := LineProfile(img, imaging.Point{X: 0, Y: 0}, imaging.Point{X: 4, Y: 0})
	require.NoError(t, err)
	require.Len(t, res.Channels, 1)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, res.X)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, res.Y)
	assert.Equal(t, []float64{0, 10, 20, 30, 40}, res.Channels[0].Values)

	s := res.Channels[0].Summary
	assert.Equal(t, 20.0, s.Mean)
	assert.InDelta(t, math.Sqrt(200), s.Std, 1e-9)
	assert.Equal(t, 20.0, s.Median)
	assert.Equal(t, 40.0, s.Max)
	assert.Equal(t, 0.0, s.Min)
}

func TestLineProfile_SkipsOutOfBounds(t *testing.T) {
	img := grayImage(t, [][]uint8{{1, 2, 3}})

	res, err := LineProfile(img, imaging.Point{X: -2, Y: 0}, imaging.Point{X: 4, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.X)
	assert.Equal(t, []float64{1, 2, 3}, res.Channels[0].Values)
	assert.Equal(t, 6.0, res.Length)
}

func TestLineProfile_Degenerate(t *testing.T) {
	img := grayImage(t, [][]uint8{{1}})
	_, err := LineProfile(img, imaging.Point{}, imaging.Point{})
	assert.ErrorIs(t, err, imaging.ErrDegenerateInput)
}

func TestHistogram(t *testing.T) {
	img := grayImage(t, [][]uint8{
		{0, 0, 255},
		{10, 10, 10},
	})

	res, err := Histogram(img, imaging.Region{})
	require.NoError(t, err)
	require.Len(t, res.Channels, 1)
	assert.Equal(t, imaging.Region{X1: 0, Y1: 0, X2: 3, Y2: 2}, res.Region)
	assert.Equal(t, 6, res.Pixels)

	bins := res.Channels[0].Bins
	require.Len(t, bins, 256)
	assert.Equal(t, 2, bins[0])
	assert.Equal(t, 3, bins[10])
	assert.Equal(t, 1, bins[255])
	assert.Equal(t, 10.0, res.Channels[0].Summary.Median)

	res, err = Histogram(img, imaging.Region{X1: 1, Y1: 1, X2: 10, Y2: 10})
	require.NoError(t, err)
	assert.Equal(t, imaging.Region{X1: 1, Y1: 1, X2: 3, Y2: 2}, res.Region)
	assert.Equal(t, 2, res.Channels[0].Bins[10])

	_, err = Histogram(img, imaging.Region{X1: 5, Y1: 5, X2: 8, Y2: 8})
	assert.ErrorIs(t, err, imaging.ErrInvalidArgument)
}

func TestHistogram_Color(t *testing.T) {
	img, err := imaging.Blank(4, 4, color.RGBA{R: 200, G: 100, B: 50, A: 255}, "c")
	require.NoError(t, err)

	res, err := Histogram(img, imaging.Region{})
	require.NoError(t, err)
	require.Len(t, res.Channels, 3)
	assert.Equal(t, 16, res.Channels[0].Bins[50])
	assert.Equal(t, 16, res.Channels[1].Bins[100])
	assert.Equal(t, 16, res.Channels[2].Bins[200])
}

func TestProjection(t *testing.T) {
	img := grayImage(t, [][]uint8{
		{1, 2, 3},
		{4, 5, 6},
	})

	rows, err := Projection(img, imaging.Region{}, AxisRows)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rows.Index)
	assert.Equal(t, []float64{6, 15}, rows.Channels[0].Sums)
	assert.Equal(t, 10.5, rows.Channels[0].Summary.Mean)

	cols, err := Projection(img, imaging.Region{X1: 1, Y1: 0, X2: 3, Y2: 2}, AxisColumns)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, cols.Index)
	assert.Equal(t, []float64{7, 9}, cols.Channels[0].Sums)
	assert.Equal(t, "columns", cols.Axis)

	_, err = Projection(img, imaging.Region{}, Axis(7))
	assert.ErrorIs(t, err, imaging.ErrInvalidArgument)
}

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("cols")
	require.NoError(t, err)
	assert.Equal(t, AxisColumns, a)

	_, err = ParseAxis("diagonal")
	assert.ErrorIs(t, err, imaging.ErrInvalidArgument)
}

func TestRenderCharts(t *testing.T) {
	img := grayImage(t, [][]uint8{
		{0, 64, 128},
		{192, 255, 32},
	})

	hist, err := Histogram(img, imaging.Region{})
	require.NoError(t, err)
	prof, err := LineProfile(img, imaging.Point{X: 0, Y: 0}, imaging.Point{X: 2, Y: 1})
	require.NoError(t, err)
	proj, err := Projection(img, imaging.Region{}, AxisColumns)
	require.NoError(t, err)

	charts := map[string]func() ([]byte, error){
		"histogram":  func() ([]byte, error) { return RenderHistogramPNG(hist, 0, 0) },
		"profile":    func() ([]byte, error) { return RenderProfilePNG(prof, 320, 200) },
		"projection": func() ([]byte, error) { return RenderProjectionPNG(proj, 320, 200) },
	}
	for name, render := range charts {
		t.Run(name, func(t *testing.T) {
			data, err := render()
			require.NoError(t, err)
			_, err = png.Decode(bytes.NewReader(data))
			assert.NoError(t, err)
		})
	}
}

func TestMeanStd(t *testing.T) {
	t.Parallel()

	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, mean, 1e-12)
	assert.InDelta(t, 2, std, 1e-12, "population, not sample, deviation")

	mean, std = MeanStd(nil)
	assert.Zero(t, mean)
	assert.Zero(t, std)
}

func TestPlaneBins(t *testing.T) {
	t.Parallel()

	buf := imaging.NewBuffer(3, 2, 1)
	copy(buf.Pix, []uint8{0, 7, 7, 255, 7, 0})
	bins := PlaneBins(buf)

	assert.Equal(t, 2, bins[0])
	assert.Equal(t, 3, bins[7])
	assert.Equal(t, 1, bins[255])
	total := 0
	for _, n := range bins {
		total += n
	}
	assert.Equal(t, 6, total)
}
