package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

func TestLinearStretch(t *testing.T) {
	img := grayImage(t, [][]uint8{{0, 50, 100, 150, 200}})

	out, err := LinearStretch(img, 50, 150)
	require.NoError(t, err)
	if diff := cmp.Diff([][]uint8{{0, 0, 128, 255, 255}}, pixels(out)); diff != "" {
		t.Errorf("stretch mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "linear_stretch(lo=50, hi=150)", out.Log().Last())

	_, err = LinearStretch(img, 80, 80)
	assert.ErrorIs(t, err, imaging.ErrDegenerateInput)
}

func TestExpand(t *testing.T) {
	out, err := Expand(grayImage(t, [][]uint8{{100, 150, 200}}))
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{0, 128, 255}}, pixels(out))

	_, err = Expand(filled(t, 3, 3, 42, imaging.KindGray))
	assert.ErrorIs(t, err, imaging.ErrDegenerateInput)
}

func TestNormalize(t *testing.T) {
	img := grayImage(t, [][]uint8{{10, 20, 30}})
	out, err := Normalize(img, 200, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{0, 100, 200}}, pixels(out))

	flat, err := Normalize(filled(t, 2, 2, 9, imaging.KindGray), 30, 60)
	require.NoError(t, err)
	assert.True(t, allEqual(flat, 30))
}

func TestContrastBrightness(t *testing.T) {
	out, err := ContrastBrightness(grayImage(t, [][]uint8{{0, 100, 200}}), 1.5, 10)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{10, 160, 255}}, pixels(out))
}

func TestMeanStdRemap(t *testing.T) {
	img := grayImage(t, [][]uint8{{90, 110}})
	out, err := MeanStdRemap(img, 128, 20)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{108, 148}}, pixels(out))

	_, err = MeanStdRemap(img, 128, -1)
	assert.ErrorIs(t, err, imaging.ErrInvalidArgument)
}

func TestEqualizeHist(t *testing.T) {
	img := grayImage(t, [][]uint8{{50, 50, 60, 60}})
	out, err := EqualizeHist(img)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{0, 0, 255, 255}}, pixels(out))

	flat, err := EqualizeHist(filled(t, 2, 2, 77, imaging.KindGray))
	require.NoError(t, err)
	assert.True(t, allEqual(flat, 77))
}

func TestCLAHE(t *testing.T) {
	img := rampImage(t, 16, 16)
	out, err := CLAHE(img, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, imaging.KindGray, out.Kind())
	assert.Equal(t, 16, out.Width())
	assert.Equal(t, "clahe(clip=2, tiles=4)", out.Log().Last())

	_, err = CLAHE(img, 2, 0)
	assert.ErrorIs(t, err, imaging.ErrInvalidArgument)

	// More tiles than pixels is clamped rather than rejected.
	_, err = CLAHE(grayImage(t, [][]uint8{{1, 2}}), 40, 8)
	assert.NoError(t, err)
}

func TestInvert(t *testing.T) {
	bin := binaryImage(t, [][]uint8{{0, 255}})
	out, err := Invert(bin)
	require.NoError(t, err)
	assert.Equal(t, imaging.KindBinary, out.Kind())
	assert.Equal(t, [][]uint8{{255, 0}}, pixels(out))

	col, err := Invert(colorImage(t, 1, 1, rgb(10, 20, 30)))
	require.NoError(t, err)
	assert.Equal(t, imaging.KindColor, col.Kind())
	assert.Equal(t, []uint8{225, 235, 245}, col.Buffer().Pix)
}

func TestBrightnessInvert(t *testing.T) {
	out, err := BrightnessInvert(binaryImage(t, [][]uint8{{255, 0}}))
	require.NoError(t, err)
	assert.Equal(t, imaging.KindBinary, out.Kind())
	assert.Equal(t, [][]uint8{{0, 255}}, pixels(out))

	col, err := BrightnessInvert(colorImage(t, 1, 1, rgb(100, 100, 100)))
	require.NoError(t, err)
	assert.Equal(t, []uint8{155, 155, 155}, col.Buffer().Pix)
}

func TestGamma(t *testing.T) {
	img := grayImage(t, [][]uint8{{0, 64, 255}})
	out, err := Gamma(img, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{0, 128, 255}}, pixels(out))

	for _, g := range []float64{0, -1} {
		_, err := Gamma(img, g)
		assert.ErrorIs(t, err, imaging.ErrInvalidArgument, "gamma %v", g)
	}
}

func TestApplyLUT(t *testing.T) {
	var lut [256]uint8
	for i := range lut {
		lut[i] = uint8(255 - i)
	}
	out, err := ApplyLUT(grayImage(t, [][]uint8{{0, 1, 255}}), &lut, "reverse")
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{255, 254, 0}}, pixels(out))
	assert.Equal(t, "apply_lut(name=reverse)", out.Log().Last())

	_, err = ApplyLUT(grayImage(t, [][]uint8{{0}}), nil, "nil")
	assert.ErrorIs(t, err, imaging.ErrInvalidArgument)
}

func TestPosterize(t *testing.T) {
	lut, err := PosterizeTable(2)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), lut[0])
	assert.Equal(t, uint8(0), lut[127])
	assert.Equal(t, uint8(255), lut[128])
	assert.Equal(t, uint8(255), lut[255], "top value pinned to last level")

	lut, err = PosterizeTable(4)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 85, 170, 255}, []uint8{lut[0], lut[64], lut[128], lut[255]})
	assert.Equal(t, lut[255], lut[254], "254 and 255 share the top bin")
	assert.Equal(t, uint8(0), lut[0], "0 maps to the lowest level")

	out, err := Posterize(grayImage(t, [][]uint8{{0, 254, 255}}), 4)
	require.NoError(t, err)
	assert.Equal(t, [][]uint8{{0, 255, 255}}, pixels(out))

	lut, err = PosterizeTable(256)
	require.NoError(t, err)
	for v := range lut {
		require.Equal(t, uint8(v), lut[v])
	}

	for _, n := range []int{0, 1, 257} {
		_, err := Posterize(grayImage(t, [][]uint8{{0}}), n)
		assert.ErrorIs(t, err, imaging.ErrInvalidArgument, "levels %d", n)
	}
}
