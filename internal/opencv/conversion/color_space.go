package conversion

import (
	"fmt"

	"gocv.io/x/gocv"

	"gpu-image-suite/internal/opencv/safe"
)

// ToGray returns a new single-channel copy of src. The caller owns the
// result.
func ToGray(src gocv.Mat) (gocv.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "grayscale conversion"); err != nil {
		return gocv.NewMat(), err
	}

	dst := gocv.NewMat()
	var err error
	switch src.Channels() {
	case 1:
		err = src.CopyTo(&dst)
	case 3:
		err = gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	case 4:
		err = gocv.CvtColor(src, &dst, gocv.ColorBGRAToGray)
	default:
		dst.Close()
		return gocv.NewMat(), fmt.Errorf("%w: unsupported channel count for grayscale conversion: %d",
			safe.ErrInvalidMat, src.Channels())
	}
	if err != nil {
		dst.Close()
		return gocv.NewMat(), fmt.Errorf("grayscale conversion: %w", err)
	}

	return dst, nil
}

// ToBGR returns a new 3-channel copy of src.
func ToBGR(src gocv.Mat) (gocv.Mat, error) {
	if err := safe.ValidateMatForOperation(src, "BGR conversion"); err != nil {
		return gocv.NewMat(), err
	}

	dst := gocv.NewMat()
	var err error
	switch src.Channels() {
	case 1:
		err = gocv.CvtColor(src, &dst, gocv.ColorGrayToBGR)
	case 3:
		err = src.CopyTo(&dst)
	case 4:
		err = gocv.CvtColor(src, &dst, gocv.ColorBGRAToBGR)
	default:
		dst.Close()
		return gocv.NewMat(), fmt.Errorf("%w: unsupported channel count for BGR conversion: %d",
			safe.ErrInvalidMat, src.Channels())
	}
	if err != nil {
		dst.Close()
		return gocv.NewMat(), fmt.Errorf("BGR conversion: %w", err)
	}

	return dst, nil
}

// EqualizeLuma equalizes the Y channel of a BGR image in YCrCb space and
// converts back. Chroma is left untouched.
func EqualizeLuma(src gocv.Mat) (gocv.Mat, error) {
	if err := safe.ValidateColorConversion(src, gocv.ColorBGRToYCrCb); err != nil {
		return gocv.NewMat(), err
	}

	ycrcb := gocv.NewMat()
	defer ycrcb.Close()
	if err := gocv.CvtColor(src, &ycrcb, gocv.ColorBGRToYCrCb); err != nil {
		return gocv.NewMat(), fmt.Errorf("to YCrCb: %w", err)
	}

	channels := gocv.Split(ycrcb)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()

	luma := gocv.NewMat()
	defer luma.Close()
	if err := gocv.EqualizeHist(channels[0], &luma); err != nil {
		return gocv.NewMat(), fmt.Errorf("equalize luma: %w", err)
	}
	if err := luma.CopyTo(&channels[0]); err != nil {
		return gocv.NewMat(), fmt.Errorf("equalize luma: %w", err)
	}

	merged := gocv.NewMat()
	defer merged.Close()
	if err := gocv.Merge(channels, &merged); err != nil {
		return gocv.NewMat(), fmt.Errorf("merge YCrCb: %w", err)
	}

	dst := gocv.NewMat()
	if err := gocv.CvtColor(merged, &dst, gocv.ColorYCrCbToBGR); err != nil {
		dst.Close()
		return gocv.NewMat(), fmt.Errorf("from YCrCb: %w", err)
	}
	return dst, nil
}
