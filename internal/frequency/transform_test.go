package frequency

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

func gradientImage(t *testing.T, w, h int) *imaging.Image {
	t.Helper()
	buf := imaging.NewBuffer(w, h, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf.Pix[y*w+x] = uint8((x*37 + y*91) % 256)
		}
	}
	buf.Pix[0] = 0
	buf.Pix[len(buf.Pix)-1] = 255
	img, err := imaging.New(buf, imaging.KindGray, "gradient")
	require.NoError(t, err)
	return img
}

func TestForward(t *testing.T) {
	img := gradientImage(t, 8, 6)
	freq, err := Forward(img)
	require.NoError(t, err)

	assert.Equal(t, imaging.KindFrequency, freq.Kind())
	assert.Equal(t, 8, freq.Width())
	assert.Equal(t, 6, freq.Height())
	assert.Equal(t, "dft()", freq.Log().Last())

	spec, ok := freq.Spectrum()
	require.True(t, ok)
	var sum float64
	for _, v := range img.Buffer().Pix {
		sum += float64(v)
	}
	dc := spec.Re[3*8+4]
	assert.InDelta(t, sum, dc, 1e-6, "DC term sits at the center")
	assert.InDelta(t, 0, spec.Im[3*8+4], 1e-6)

	mag := freq.Buffer()
	assert.Equal(t, uint8(255), mag.Pix[3*8+4], "DC dominates the magnitude display")
}

func TestForward_Flat(t *testing.T) {
	buf := imaging.NewBuffer(4, 4, 1)
	img, err := imaging.New(buf, imaging.KindGray, "black")
	require.NoError(t, err)

	freq, err := Forward(img)
	require.NoError(t, err)
	for _, v := range freq.Buffer().Pix {
		require.Equal(t, uint8(0), v)
	}
}

func TestRoundTrip(t *testing.T) {
	img := gradientImage(t, 8, 6)
	freq, err := Forward(img)
	require.NoError(t, err)

	back, err := Inverse(freq, nil)
	require.NoError(t, err)
	assert.Equal(t, imaging.KindGray, back.Kind())
	assert.Equal(t, []string{"new(kind=gray, size=8x6)", "dft()", "idft(mask=false)"}, back.Log().Entries())

	if diff := cmp.Diff(img.Buffer().Pix, back.Buffer().Pix); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_Color(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := uint8(x * 85)
			src.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	img, err := imaging.FromImage(src, "ramp")
	require.NoError(t, err)

	freq, err := Forward(img)
	require.NoError(t, err)
	back, err := Inverse(freq, nil)
	require.NoError(t, err)

	want := imaging.Luma(img).Pix
	assert.Equal(t, want, back.Buffer().Pix)
}

func TestInverse_Mask(t *testing.T) {
	img := gradientImage(t, 8, 6)
	freq, err := Forward(img)
	require.NoError(t, err)

	// Keep only the DC term: the result is flat, which normalizes to 0.
	buf := imaging.NewBuffer(8, 6, 1)
	buf.Pix[3*8+4] = 255
	mask, err := imaging.New(buf, imaging.KindBinary, "dc")
	require.NoError(t, err)

	lowpass, err := Inverse(freq, mask)
	require.NoError(t, err)
	for _, v := range lowpass.Buffer().Pix {
		require.Equal(t, uint8(0), v)
	}
	assert.Equal(t, "idft(mask=true)", lowpass.Log().Last())

	// A gray mask of 127 everywhere blocks everything; 128 passes everything.
	for _, tc := range []struct {
		fill uint8
		same bool
	}{{127, false}, {128, true}} {
		g := imaging.NewBuffer(8, 6, 1)
		for i := range g.Pix {
			g.Pix[i] = tc.fill
		}
		gm, err := imaging.New(g, imaging.KindGray, "gray")
		require.NoError(t, err)
		out, err := Inverse(freq, gm)
		require.NoError(t, err)
		assert.Equal(t, tc.same, cmp.Equal(img.Buffer().Pix, out.Buffer().Pix), "fill %d", tc.fill)
	}
}

func TestInverse_Errors(t *testing.T) {
	img := gradientImage(t, 8, 6)
	_, err := Inverse(img, nil)
	assert.ErrorIs(t, err, imaging.ErrPrecondition)

	freq, err := Forward(img)
	require.NoError(t, err)
	small, err := imaging.New(imaging.NewBuffer(4, 4, 1), imaging.KindGray, "small")
	require.NoError(t, err)
	_, err = Inverse(freq, small)
	assert.ErrorIs(t, err, imaging.ErrShapeMismatch)
}

func TestInverse_KindMatrix(t *testing.T) {
	gray := gradientImage(t, 8, 6)
	freq, err := Forward(gray)
	require.NoError(t, err)
	bin, err := imaging.New(imaging.NewBuffer(8, 6, 1), imaging.KindBinary, "binary")
	require.NoError(t, err)
	col, err := imaging.FromImage(image.NewNRGBA(image.Rect(0, 0, 8, 6)), "color")
	require.NoError(t, err)

	for _, img := range []*imaging.Image{col, gray, bin, freq} {
		t.Run(img.Kind().String(), func(t *testing.T) {
			out, err := Inverse(img, nil)
			if img.Kind() != imaging.KindFrequency {
				assert.ErrorIs(t, err, imaging.ErrPrecondition)
				assert.Nil(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, imaging.KindGray, out.Kind())
			assert.Equal(t, 1, out.Channels())
			assert.Equal(t, 8, out.Width())
			assert.Equal(t, 6, out.Height())
		})
	}
}
