package labeling

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-pipeline/internal/frequency"
	"github.com/ironsheep/image-pipeline/internal/imaging"
)

func everyKind(t *testing.T) map[imaging.Kind]*imaging.Image {
	t.Helper()
	grayBuf := imaging.NewBuffer(6, 5, 1)
	for i := range grayBuf.Pix {
		grayBuf.Pix[i] = uint8(i * 8)
	}
	gray, err := imaging.New(grayBuf, imaging.KindGray, "gray")
	require.NoError(t, err)
	freq, err := frequency.Forward(gray)
	require.NoError(t, err)
	col, err := imaging.FromImage(image.NewNRGBA(image.Rect(0, 0, 6, 5)), "color")
	require.NoError(t, err)
	return map[imaging.Kind]*imaging.Image{
		imaging.KindColor:     col,
		imaging.KindGray:      gray,
		imaging.KindBinary:    blobs(t),
		imaging.KindFrequency: freq,
	}
}

func TestLabeling_KindMatrix(t *testing.T) {
	render := map[string]func(*imaging.Image) (*Result, error){
		"paint":   func(img *imaging.Image) (*Result, error) { return Paint(img, 0, 8) },
		"overlay": func(img *imaging.Image) (*Result, error) { return Overlay(img, 0, 8, Options{}) },
	}

	for kind, img := range everyKind(t) {
		t.Run("label/"+kind.String(), func(t *testing.T) {
			c, err := Label(img, 8)
			if kind != imaging.KindBinary {
				assert.ErrorIs(t, err, imaging.ErrPrecondition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, c.Count())
			assert.Len(t, c.Labels, img.Width()*img.Height())
		})

		for name, fn := range render {
			t.Run(name+"/"+kind.String(), func(t *testing.T) {
				res, err := fn(img)
				if kind != imaging.KindBinary {
					assert.ErrorIs(t, err, imaging.ErrPrecondition)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, imaging.KindColor, res.Image.Kind())
				assert.Equal(t, 3, res.Image.Channels())
				assert.Equal(t, img.Width(), res.Image.Width())
				assert.Equal(t, img.Height(), res.Image.Height())
			})
		}
	}
}
