package ocr

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayscaleConvertsColorImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.RGBA{R: 200, G: 30, B: 90, A: 255})
		}
	}

	gray := Grayscale(src)
	if gray.Bounds() != src.Bounds() {
		t.Fatalf("bounds changed: %v", gray.Bounds())
	}
	if gray.GrayAt(0, 0).Y == 0 {
		t.Fatal("expected non-black pixel after conversion")
	}
}

func TestGrayscalePassthrough(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	if got := Grayscale(src); got != src {
		t.Fatal("expected the same *image.Gray back")
	}
}
