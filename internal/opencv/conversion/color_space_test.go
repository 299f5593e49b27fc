package conversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestToGrayChannelCounts(t *testing.T) {
	for _, mt := range []gocv.MatType{gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4} {
		src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(50, 50, 50, 255), 6, 8, mt)
		out, err := ToGray(src)
		require.NoError(t, err)
		assert.Equal(t, 1, out.Channels())
		assert.Equal(t, uint8(50), out.GetUCharAt(2, 3))
		out.Close()
		src.Close()
	}
}

func TestToBGRChannelCounts(t *testing.T) {
	for _, mt := range []gocv.MatType{gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4} {
		src := gocv.NewMatWithSize(6, 8, mt)
		out, err := ToBGR(src)
		require.NoError(t, err)
		assert.Equal(t, 3, out.Channels())
		out.Close()
		src.Close()
	}
}

func TestConversionsRejectEmpty(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	_, err := ToGray(empty)
	assert.Error(t, err)
	_, err = ToBGR(empty)
	assert.Error(t, err)
	_, err = EqualizeLuma(empty)
	assert.Error(t, err)
}

func TestEqualizeLumaKeepsGrayNeutral(t *testing.T) {
	src := gocv.NewMatWithSize(16, 16, gocv.MatTypeCV8UC3)
	defer src.Close()
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := uint8(110 + (x+y)%10)
			for c := 0; c < 3; c++ {
				src.SetUCharAt3(y, x, c, v)
			}
		}
	}

	out, err := EqualizeLuma(src)
	require.NoError(t, err)
	defer out.Close()

	require.Equal(t, 3, out.Channels())
	b, g, r := out.GetUCharAt3(5, 5, 0), out.GetUCharAt3(5, 5, 1), out.GetUCharAt3(5, 5, 2)
	assert.InDelta(t, int(b), int(g), 1)
	assert.InDelta(t, int(g), int(r), 1)

	luma, err := ToGray(out)
	require.NoError(t, err)
	defer luma.Close()

	_, maxVal, _, _ := gocv.MinMaxLoc(luma)
	assert.Greater(t, maxVal, float32(240))
}
