package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a decodable JPEG: %v", err)
	}
	return img
}

func TestProcessDownscalesWideImages(t *testing.T) {
	t.Parallel()
	p := NewPipeline(1200, 85)

	out, err := p.Process(encodePNG(t, 2000, 1000))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	img := decodeJPEG(t, out)
	if got := img.Bounds().Dx(); got != 1200 {
		t.Errorf("output width: got %d, want 1200", got)
	}
	// 2000x1000 scaled to width 1200 keeps the 2:1 aspect ratio.
	if got := img.Bounds().Dy(); got != 600 {
		t.Errorf("output height: got %d, want 600", got)
	}
}

func TestProcessKeepsNarrowImages(t *testing.T) {
	t.Parallel()
	p := NewPipeline(1200, 85)

	out, err := p.Process(encodePNG(t, 400, 300))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	img := decodeJPEG(t, out)
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Errorf("dimensions: got %dx%d, want 400x300 unchanged",
			img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestProcessReencodesExactWidthImages(t *testing.T) {
	t.Parallel()
	p := NewPipeline(1200, 85)

	out, err := p.Process(encodePNG(t, 1200, 500))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	img := decodeJPEG(t, out)
	if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 500 {
		t.Errorf("dimensions: got %dx%d, want 1200x500",
			img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	t.Parallel()
	p := NewPipeline(1200, 85)

	out, err := p.Process([]byte("this is not an image"))
	if err == nil {
		t.Fatal("Process of non-image bytes: got nil error, want error")
	}
	if out != nil {
		t.Errorf("Process must not return partial output on failure, got %d bytes", len(out))
	}
}

func TestNewPipelineDefaults(t *testing.T) {
	t.Parallel()
	p := NewPipeline(0, 0)
	if p.MaxWidth != DefaultMaxWidth {
		t.Errorf("MaxWidth default: got %d, want %d", p.MaxWidth, DefaultMaxWidth)
	}
	if p.Quality != DefaultQuality {
		t.Errorf("Quality default: got %d, want %d", p.Quality, DefaultQuality)
	}
}
