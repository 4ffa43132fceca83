package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-pipeline/internal/frequency"
	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// everyKind returns a 6×6 image of each kind.
func everyKind(t *testing.T) map[imaging.Kind]*imaging.Image {
	t.Helper()
	gray := rampImage(t, 6, 6)
	freq, err := frequency.Forward(gray)
	require.NoError(t, err)
	return map[imaging.Kind]*imaging.Image{
		imaging.KindColor:     colorImage(t, 6, 6, rgb(200, 100, 50)),
		imaging.KindGray:      gray,
		imaging.KindBinary:    filled(t, 6, 6, 255, imaging.KindBinary),
		imaging.KindFrequency: freq,
	}
}

func TestBinaryOps_KindMatrix(t *testing.T) {
	ops := map[string]func(*imaging.Image) (*imaging.Image, error){
		"thinning":              Thinning,
		"remove_isolated_white": RemoveIsolatedWhite,
		"remove_isolated_black": RemoveIsolatedBlack,
	}
	for name, fn := range ops {
		for kind, img := range everyKind(t) {
			t.Run(name+"/"+kind.String(), func(t *testing.T) {
				out, err := fn(img)
				if kind != imaging.KindBinary {
					assert.ErrorIs(t, err, imaging.ErrPrecondition)
					assert.Nil(t, out)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, imaging.KindBinary, out.Kind())
				assert.Equal(t, 1, out.Channels())
				assert.Equal(t, 6, out.Width())
				assert.Equal(t, 6, out.Height())
			})
		}
	}
}
