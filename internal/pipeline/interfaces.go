package pipeline

import (
	"context"

	"gocv.io/x/gocv"
)

// ImageLoader decodes an image file.
type ImageLoader interface {
	Load(ctx context.Context, path string) (*ImageData, error)
}

// ImageSaver encodes mat to path, creating parent directories.
type ImageSaver interface {
	Save(ctx context.Context, path string, mat gocv.Mat) error
}
