package safe

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

var ErrInvalidMat = errors.New("invalid mat")

// ValidateMatForOperation checks that mat holds an 8-bit image with 1, 3 or
// 4 channels.
func ValidateMatForOperation(mat gocv.Mat, operation string) error {
	if mat.Empty() {
		return fmt.Errorf("%w: empty for operation: %s", ErrInvalidMat, operation)
	}

	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d for operation: %s",
			ErrInvalidMat, mat.Cols(), mat.Rows(), operation)
	}

	if err := ValidateMatType(mat.Type(), operation); err != nil {
		return err
	}

	return nil
}

func ValidateColorConversion(src gocv.Mat, code gocv.ColorConversionCode) error {
	if err := ValidateMatForOperation(src, "CvtColor"); err != nil {
		return err
	}

	channels := src.Channels()

	switch code {
	case gocv.ColorBGRToGray, gocv.ColorBGRToYCrCb, gocv.ColorYCrCbToBGR:
		if channels != 3 {
			return fmt.Errorf("%w: conversion %d requires 3 channels, got %d", ErrInvalidMat, int(code), channels)
		}
	case gocv.ColorBGRAToBGR, gocv.ColorBGRAToGray:
		if channels != 4 {
			return fmt.Errorf("%w: conversion %d requires 4 channels, got %d", ErrInvalidMat, int(code), channels)
		}
	}

	return nil
}

func ValidateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d for operation: %s", ErrInvalidMat, width, height, operation)
	}

	if width > 32768 || height > 32768 {
		return fmt.Errorf("%w: dimensions %dx%d exceed maximum size for operation: %s", ErrInvalidMat, width, height, operation)
	}

	return nil
}

func ValidateMatType(matType gocv.MatType, operation string) error {
	switch matType {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
		return nil
	default:
		return fmt.Errorf("%w: unsupported MatType %d for operation: %s", ErrInvalidMat, int(matType), operation)
	}
}
