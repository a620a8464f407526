package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{60, 60, 60, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 80, 0, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestNormalizeJPEG(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodeJPEG(200, 100)))
	if err != nil {
		t.Fatalf("Normalize JPEG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
	if len(photo.Data) == 0 {
		t.Error("expected non-empty data")
	}
	if photo.Width != 200 || photo.Height != 100 {
		t.Errorf("expected 200x100, got %dx%d", photo.Width, photo.Height)
	}
}

func TestNormalizePNGConvertedToJPEG(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodePNG(100, 100)))
	if err != nil {
		t.Fatalf("Normalize PNG: %v", err)
	}
	if photo.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", photo.MIME)
	}
}

func TestNormalizeDownscalesLargePhoto(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodeJPEG(3000, 1500)))
	if err != nil {
		t.Fatalf("Normalize large photo: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(photo.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != maxEdge {
		t.Errorf("expected width %d, got %d", maxEdge, bounds.Dx())
	}
	if bounds.Dy() != maxEdge/2 {
		t.Errorf("expected aspect ratio preserved (height %d), got %d", maxEdge/2, bounds.Dy())
	}
}

func TestNormalizeDoesNotUpscale(t *testing.T) {
	photo, err := Normalize(bytes.NewReader(encodeJPEG(64, 48)))
	if err != nil {
		t.Fatalf("Normalize small photo: %v", err)
	}
	if photo.Width != 64 || photo.Height != 48 {
		t.Errorf("small photo should keep its size: got %dx%d", photo.Width, photo.Height)
	}
}

func TestNormalizeRejectsNonImage(t *testing.T) {
	if _, err := Normalize(bytes.NewReader([]byte("not a photo"))); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestNormalizeRejectsGIF(t *testing.T) {
	if _, err := Normalize(bytes.NewReader([]byte("GIF89a..."))); err == nil {
		t.Error("expected error for GIF")
	}
}
