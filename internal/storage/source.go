package storage

import (
	"context"
	"fmt"
	"image"
	"io"

	// Decoders for the formats the pipeline accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSource retrieves and decodes an image from a source reference.
type ImageSource interface {
	Fetch(ctx context.Context, ref string) (image.Image, error)
}

// decodeImage decodes from any registered format.
func decodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
