package pipeline

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"gpu-image-suite/internal/logger"
	"gpu-image-suite/internal/opencv/safe"
	"gpu-image-suite/internal/timing"
)

type imageLoader struct {
	logger  logger.Logger
	tracker *timing.Tracker
}

func NewImageLoader(log logger.Logger, tracker *timing.Tracker) ImageLoader {
	return &imageLoader{logger: log, tracker: tracker}
}

// Load decodes path as a 3-channel BGR image with OpenCV.
func (l *imageLoader) Load(ctx context.Context, path string) (*ImageData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stageCtx := l.tracker.StartTimingContext(ctx, "load")
	defer l.tracker.EndTiming(stageCtx)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	headerFormat := l.sniffFormat(path)

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w: %s", ErrDecode, path)
	}
	if err := safe.ValidateDimensions(mat.Cols(), mat.Rows(), "load"); err != nil {
		mat.Close()
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	imageData := &ImageData{
		Mat:      mat,
		Path:     path,
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Format:   determineActualFormat(filepath.Ext(path), headerFormat),
	}

	l.logger.Info("ImageLoader", "image loaded", map[string]interface{}{
		"path":       path,
		"width":      imageData.Width,
		"height":     imageData.Height,
		"channels":   imageData.Channels,
		"format":     imageData.Format,
		"size_bytes": safe.SizeBytes(mat),
	})

	return imageData, nil
}

// sniffFormat reads only the header. OpenCV remains the decoder; this is for
// logs.
func (l *imageLoader) sniffFormat(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		l.logger.Debug("ImageLoader", "header not recognised", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return ""
	}

	l.logger.Debug("ImageLoader", "header sniffed", map[string]interface{}{
		"format": format,
		"width":  cfg.Width,
		"height": cfg.Height,
	})
	return format
}

func determineActualFormat(extension, headerFormat string) string {
	if headerFormat != "" {
		return headerFormat
	}
	switch strings.ToLower(extension) {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".webp":
		return "webp"
	case ".pgm", ".ppm", ".pnm":
		return "pnm"
	default:
		return "unknown"
	}
}
