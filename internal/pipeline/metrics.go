package pipeline

import (
	"fmt"

	"gocv.io/x/gocv"

	"gpu-image-suite/internal/report"
)

// CompareOutputs measures how far the device image strays from the host
// image. Both must have the same shape and type.
func CompareOutputs(host, dev gocv.Mat) (*report.Parity, error) {
	if host.Rows() != dev.Rows() || host.Cols() != dev.Cols() || host.Type() != dev.Type() {
		return nil, fmt.Errorf("output shapes differ: host %dx%d %s, device %dx%d %s",
			host.Cols(), host.Rows(), host.Type(), dev.Cols(), dev.Rows(), dev.Type())
	}

	samples := float64(host.Rows() * host.Cols() * host.Channels())
	if samples == 0 {
		return &report.Parity{}, nil
	}

	return &report.Parity{
		MaxAbsDiff:  gocv.NormWithMats(host, dev, gocv.NormInf),
		MeanAbsDiff: gocv.NormWithMats(host, dev, gocv.NormL1) / samples,
	}, nil
}
