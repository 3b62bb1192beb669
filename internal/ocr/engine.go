package ocr

import (
	"context"
	"image"
	"image/draw"
)

// Engine is the extraction provider contract: one decoded image in, best-effort
// text out. An empty string is a valid, non-error result — "nothing readable"
// is a content outcome, not a failure.
type Engine interface {
	Name() string
	ExtractText(ctx context.Context, img image.Image) (string, error)
}

// Grayscale converts any decoded image to a single-channel raster. Recognition
// runs on the grayscale representation regardless of the upload's color model.
func Grayscale(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, src, bounds.Min, draw.Src)
	return gray
}
