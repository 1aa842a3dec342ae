package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFitWithin(t *testing.T) {
	testCases := []struct {
		name             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"slightly tall", 320, 213, 320, 200, 300, 200},
		{"smaller than box", 100, 50, 320, 200, 100, 50},
		{"exact box", 320, 200, 320, 200, 320, 200},
		{"wide", 1000, 500, 320, 200, 320, 160},
		{"tall", 200, 400, 320, 200, 100, 200},
		{"no bounds", 640, 480, 0, 0, 640, 480},
		{"degenerate", 10000, 1, 100, 100, 100, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := FitWithin(tc.w, tc.h, tc.maxW, tc.maxH)
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
		})
	}
}

func TestFlagDecoder_NativeSize(t *testing.T) {
	decoder := NewFlagDecoder(320, 200)

	img, err := decoder.Decode(encodePNG(t, 30, 20))
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestFlagDecoder_ScalesDown(t *testing.T) {
	decoder := NewFlagDecoder(32, 32)

	img, err := decoder.Decode(encodePNG(t, 128, 64))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestFlagDecoder_RejectsGarbage(t *testing.T) {
	decoder := NewFlagDecoder(320, 200)

	_, err := decoder.Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = decoder.Decode([]byte("<html>404</html>"))
	assert.Error(t, err)
}
