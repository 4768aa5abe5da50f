package imagex

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"testing"
)

// encodePNG renders a solid test image of the given size.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 200, B: 0, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestNormalize_ShrinksLargeImage(t *testing.T) {
	t.Parallel()

	out, err := Normalize(encodePNG(t, 1600, 1200))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a decodable image: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %s, want jpeg", format)
	}

	bounds := img.Bounds()
	if bounds.Dx() > 800 || bounds.Dy() > 800 {
		t.Errorf("bounds = %dx%d, want both <= 800", bounds.Dx(), bounds.Dy())
	}
	// Aspect ratio is preserved: 1600x1200 fits to 800x600.
	if bounds.Dx() != 800 || bounds.Dy() != 600 {
		t.Errorf("bounds = %dx%d, want 800x600", bounds.Dx(), bounds.Dy())
	}
}

func TestNormalize_KeepsSmallImage(t *testing.T) {
	t.Parallel()

	out, err := Normalize(encodePNG(t, 200, 100))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a decodable image: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 100 {
		t.Errorf("bounds = %dx%d, want 200x100 (no enlargement)", bounds.Dx(), bounds.Dy())
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Normalize([]byte("definitely not an image"))
	if !errors.Is(err, ErrNotAnImage) {
		t.Errorf("expected ErrNotAnImage, got %v", err)
	}
}
