package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func encodeTestImage(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255}) // top-left red
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255}) // bottom-left blue
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeFlipsRows(t *testing.T) {
	formats := map[string]func(*bytes.Buffer, image.Image) error{
		"png": func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) },
		"bmp": func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) },
	}

	for name, encode := range formats {
		t.Run(name, func(t *testing.T) {
			rgba, err := Decode(encodeTestImage(t, encode))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got := rgba.Bounds().Dx(); got != 2 {
				t.Fatalf("width = %d, want 2", got)
			}
			// Row 0 is now the bottom of the source image.
			if got := rgba.RGBAAt(0, 0); got != (color.RGBA{B: 255, A: 255}) {
				t.Errorf("pixel (0,0) = %v, want blue", got)
			}
			if got := rgba.RGBAAt(0, 1); got != (color.RGBA{R: 255, A: 255}) {
				t.Errorf("pixel (0,1) = %v, want red", got)
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("expected error for garbage data")
	}
}

func TestFlipVerticalOddHeight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	for y := 0; y < 3; y++ {
		img.SetRGBA(0, y, color.RGBA{R: uint8(y), A: 255})
	}
	FlipVertical(img)
	for y := 0; y < 3; y++ {
		if got := img.RGBAAt(0, y).R; got != uint8(2-y) {
			t.Errorf("row %d = %d, want %d", y, got, 2-y)
		}
	}
}
