// Package images re-encodes uploaded photos into a bounded, web-friendly
// JPEG. It performs no I/O and keeps no state between calls.
package images

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/jpegli"

	"github.com/dmitrijs2005/todophotos/internal/common"
)

const (
	DefaultMaxWidth  = 800
	DefaultMaxHeight = 600
	DefaultQuality   = 85

	// progressiveLevel 0 is sequential; 2 is the most progression steps.
	progressiveLevel = 2

	// maxPixels bounds the decoded frame so a tiny file declaring a huge
	// canvas cannot exhaust memory.
	maxPixels = 40_000_000
)

// Normalizer shrinks a JPEG to fit MaxWidth×MaxHeight (aspect ratio kept,
// never upscaled) and re-encodes it as a progressive JPEG at Quality.
type Normalizer struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// NewNormalizer returns a Normalizer with the 800×600 / q85 defaults.
func NewNormalizer() Normalizer {
	return Normalizer{
		MaxWidth:  DefaultMaxWidth,
		MaxHeight: DefaultMaxHeight,
		Quality:   DefaultQuality,
	}
}

// Normalize returns the optimized JPEG bytes for raw. Every failure wraps
// common.ErrTransform; callers must not store anything in that case.
func (n Normalizer) Normalize(raw []byte) ([]byte, error) {

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", common.ErrTransform, err)
	}
	if format != "jpeg" {
		return nil, fmt.Errorf("%w: unsupported format %q", common.ErrTransform, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("%w: unsupported dimensions %dx%d", common.ErrTransform, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", common.ErrTransform, err)
	}

	// Fit returns an unscaled copy when img already fits the bounds.
	img = imaging.Fit(img, n.MaxWidth, n.MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	err = jpegli.Encode(&buf, img, &jpegli.EncodingOptions{
		Quality:           n.Quality,
		ProgressiveLevel:  progressiveLevel,
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", common.ErrTransform, err)
	}

	return buf.Bytes(), nil
}
