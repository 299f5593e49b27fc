package pipeline

import (
	"errors"

	"gocv.io/x/gocv"
)

var (
	ErrDecode            = errors.New("failed to read input image")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrWrite             = errors.New("failed to write output image")
)

// ImageData is a decoded input image. Mat is owned by the ImageData and
// released by Close.
type ImageData struct {
	Mat      gocv.Mat
	Path     string
	Width    int
	Height   int
	Channels int
	Format   string
}

func (d *ImageData) Close() {
	if d == nil {
		return
	}
	d.Mat.Close()
}
