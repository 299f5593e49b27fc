package device

import (
	"gocv.io/x/gocv"

	"gpu-image-suite/internal/timing"
)

// Unimplemented is the default backend. It has no kernels.
type Unimplemented struct{}

func (Unimplemented) Info() BackendInfo {
	return BackendInfo{
		Name:        "unimplemented",
		Version:     "stub",
		Description: "device backend stub (no implementation)",
	}
}

func (Unimplemented) Available() bool { return false }

func (Unimplemented) NewTimer() timing.Timer { return timing.NewDeviceTimer() }

func (Unimplemented) GaussianBlur(gocv.Mat, int, float64) (gocv.Mat, error) {
	return gocv.NewMat(), ErrNotImplemented
}

func (Unimplemented) SobelEdge(gocv.Mat) (gocv.Mat, error) {
	return gocv.NewMat(), ErrNotImplemented
}

func (Unimplemented) Sharpen(gocv.Mat, int, float64, float64) (gocv.Mat, error) {
	return gocv.NewMat(), ErrNotImplemented
}

func (Unimplemented) HistEqualize(gocv.Mat) (gocv.Mat, error) {
	return gocv.NewMat(), ErrNotImplemented
}
