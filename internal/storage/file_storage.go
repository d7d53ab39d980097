package storage

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"os"

	apperrors "go-darkness-grader/internal/errors"
)

// FileImageSource reads images from the local filesystem.
type FileImageSource struct{}

// NewFileImageSource creates a filesystem image source
func NewFileImageSource() *FileImageSource {
	return &FileImageSource{}
}

// Fetch opens and decodes the image at the given path.
func (s *FileImageSource) Fetch(_ context.Context, path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewIOError("input file "+path+" does not exist", err)
		}
		return nil, apperrors.NewIOError("failed to open input file "+path, err)
	}
	defer f.Close()

	img, err := decodeImage(f)
	if err != nil {
		return nil, apperrors.NewDecodeError("failed to process image "+path, err)
	}
	return img, nil
}
