package images

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png" // registered for image.Decode

	"github.com/nfnt/resize"
)

const (
	DefaultMaxWidth = 1200
	DefaultQuality  = 85
)

// Pipeline turns an uploaded photo into a bounded-width JPEG.
type Pipeline struct {
	MaxWidth uint // widest allowed output, pixels
	Quality  int  // JPEG quality, 1-100
}

func NewPipeline(maxWidth uint, quality int) *Pipeline {
	if maxWidth == 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Pipeline{MaxWidth: maxWidth, Quality: quality}
}

// Process decodes raw, downscales it to MaxWidth when wider (aspect ratio
// preserved, Lanczos3), flattens transparency onto white, and re-encodes as
// JPEG. Any decode failure returns an error with no partial output.
func (p *Pipeline) Process(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("image processing failed: %w", err)
	}

	if uint(img.Bounds().Dx()) > p.MaxWidth {
		img = resize.Resize(p.MaxWidth, 0, img, resize.Lanczos3)
	}

	// JPEG has no alpha channel; composite onto white before encoding.
	flat := image.NewRGBA(img.Bounds())
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("image processing failed: %w", err)
	}
	return buf.Bytes(), nil
}
