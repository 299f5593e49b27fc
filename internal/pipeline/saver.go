package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"gpu-image-suite/internal/logger"
	"gpu-image-suite/internal/opencv/safe"
	"gpu-image-suite/internal/timing"
)

// supportedExtensions lists the encoders OpenCV's imgcodecs can be built with.
// An encoder left out of the linked OpenCV makes IMWrite fail with ErrWrite.
var supportedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".jpe": true, ".jp2": true,
	".bmp": true, ".dib": true, ".tif": true, ".tiff": true, ".webp": true,
	".pbm": true, ".pgm": true, ".ppm": true, ".pnm": true, ".pxm": true, ".pfm": true,
	".sr": true, ".ras": true, ".exr": true, ".hdr": true, ".pic": true,
}

type imageSaver struct {
	logger  logger.Logger
	tracker *timing.Tracker
}

func NewImageSaver(log logger.Logger, tracker *timing.Tracker) ImageSaver {
	return &imageSaver{logger: log, tracker: tracker}
}

// Save writes mat to path with the codec chosen by the extension.
func (s *imageSaver) Save(ctx context.Context, path string, mat gocv.Mat) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mat.Empty() {
		return fmt.Errorf("%w: no image data to save", ErrWrite)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	stageCtx := s.tracker.StartTimingContext(ctx, "save")
	defer s.tracker.EndTiming(stageCtx)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("%w: %s", ErrWrite, path)
	}

	fields := safe.Describe(mat)
	fields["path"] = path
	s.logger.Info("ImageSaver", "image saved", fields)

	return nil
}
