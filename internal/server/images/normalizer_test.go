package images

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/dmitrijs2005/todophotos/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	return buf.Bytes()
}

func decodeSize(t *testing.T, b []byte) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	return cfg.Width, cfg.Height
}

func TestNormalize_Downscales(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{name: "landscape wider than box", w: 1600, h: 900, wantW: 800, wantH: 450},
		{name: "portrait taller than box", w: 600, h: 1200, wantW: 300, wantH: 600},
		{name: "exact 4:3", w: 1024, h: 768, wantW: 800, wantH: 600},
	}

	n := NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := n.Normalize(makeJPEG(t, tt.w, tt.h))
			require.NoError(t, err)

			w, h := decodeSize(t, out)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestNormalize_NeverUpscales(t *testing.T) {
	out, err := NewNormalizer().Normalize(makeJPEG(t, 120, 80))
	require.NoError(t, err)

	w, h := decodeSize(t, out)
	assert.Equal(t, 120, w)
	assert.Equal(t, 80, h)
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := makeJPEG(t, 1000, 700)
	n := NewNormalizer()

	a, err := n.Normalize(raw)
	require.NoError(t, err)
	b, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestNormalize_ReducesQuality(t *testing.T) {
	raw := makeJPEG(t, 400, 300)

	out, err := NewNormalizer().Normalize(raw)
	require.NoError(t, err)
	assert.Less(t, len(out), len(raw))
}

func TestNormalize_Failures(t *testing.T) {
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	valid := makeJPEG(t, 64, 64)

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "empty", raw: nil},
		{name: "garbage", raw: []byte("definitely not a jpeg")},
		{name: "png", raw: pngBuf.Bytes()},
		{name: "truncated jpeg", raw: valid[:len(valid)/3]},
	}

	n := NewNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := n.Normalize(tt.raw)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, common.ErrTransform))
		})
	}
}

// sofMarkers returns the start-of-frame markers found in a JPEG stream.
func sofMarkers(b []byte) map[byte]bool {
	found := map[byte]bool{}
	for i := 2; i+3 < len(b); {
		if b[i] != 0xFF {
			i++
			continue
		}
		marker := b[i+1]
		switch {
		case marker == 0xFF, marker == 0x00, marker >= 0xD0 && marker <= 0xD7:
			i++
			continue
		case marker == 0xDA:
			return found
		case marker >= 0xC0 && marker <= 0xCF && marker != 0xC4 && marker != 0xC8 && marker != 0xCC:
			found[marker] = true
		}
		i += 2 + (int(b[i+2])<<8 | int(b[i+3]))
	}
	return found
}

func TestNormalize_ProgressiveOutput(t *testing.T) {
	out, err := NewNormalizer().Normalize(makeJPEG(t, 1000, 1000))
	require.NoError(t, err)

	markers := sofMarkers(out)
	assert.True(t, markers[0xC2], "want SOF2 (progressive) frame")
	assert.False(t, markers[0xC0], "unexpected SOF0 (baseline) frame")

	w, h := decodeSize(t, out)
	assert.Equal(t, 600, w)
	assert.Equal(t, 600, h)
}
