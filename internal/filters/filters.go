// Package filters is the host implementation of the benchmark filters. Every
// filter delegates to OpenCV through gocv and returns a new Mat owned by the
// caller.
package filters

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"gpu-image-suite/internal/opencv/conversion"
	"gpu-image-suite/internal/opencv/safe"
)

const (
	Blur    = "blur"
	Sobel   = "sobel"
	Sharpen = "sharpen"
	HistEq  = "histeq"

	// DefaultAmount is the unsharp mask strength used when none is given.
	DefaultAmount = 1.0

	// sobelEpsilon keeps the magnitude rescale finite on uniform images.
	sobelEpsilon = 1e-6

	// maxRadius keeps the kernel side 2*radius+1 inside a C int.
	maxRadius = (1<<31 - 2) / 2
)

var (
	ErrUnknownFilter = errors.New("unknown filter")
	ErrInvalidImage  = errors.New("invalid image")
)

// Names lists the supported filters in usage order.
func Names() []string {
	return []string{Blur, Sobel, Sharpen, HistEq}
}

func IsKnown(name string) bool {
	switch name {
	case Blur, Sobel, Sharpen, HistEq:
		return true
	}
	return false
}

// Set is the four-operation filter contract shared by the host library and
// device backends.
type Set interface {
	GaussianBlur(img gocv.Mat, radius int, sigma float64) (gocv.Mat, error)
	SobelEdge(img gocv.Mat) (gocv.Mat, error)
	Sharpen(img gocv.Mat, radius int, sigma, amount float64) (gocv.Mat, error)
	HistEqualize(img gocv.Mat) (gocv.Mat, error)
}

// Params carries the tunables of the parameterised filters.
type Params struct {
	Radius int
	Sigma  float64
	Amount float64
}

// Apply runs the named filter of set on img.
func Apply(set Set, name string, img gocv.Mat, params Params) (gocv.Mat, error) {
	switch name {
	case Blur:
		return set.GaussianBlur(img, params.Radius, params.Sigma)
	case Sobel:
		return set.SobelEdge(img)
	case Sharpen:
		return set.Sharpen(img, params.Radius, params.Sigma, params.Amount)
	case HistEq:
		return set.HistEqualize(img)
	default:
		return gocv.NewMat(), fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
}

// Host implements Set on the CPU.
type Host struct{}

func NewHost() *Host {
	return &Host{}
}

// failed releases a partially built result and wraps an OpenCV error.
func failed(dst gocv.Mat, operation string, err error) (gocv.Mat, error) {
	dst.Close()
	return gocv.NewMat(), fmt.Errorf("%w: %s: %v", ErrInvalidImage, operation, err)
}

func validate(img gocv.Mat, operation string) error {
	if err := safe.ValidateMatForOperation(img, operation); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return nil
}

// GaussianBlur smooths img with a (2*radius+1) square kernel and replicated
// borders.
func (h *Host) GaussianBlur(img gocv.Mat, radius int, sigma float64) (gocv.Mat, error) {
	if err := validate(img, "gaussian blur"); err != nil {
		return gocv.NewMat(), err
	}
	if radius < 0 {
		return gocv.NewMat(), fmt.Errorf("%w: negative radius %d", ErrInvalidImage, radius)
	}

	if radius > maxRadius {
		return gocv.NewMat(), fmt.Errorf("%w: radius %d exceeds %d", ErrInvalidImage, radius, maxRadius)
	}

	k := 2*radius + 1
	dst := gocv.NewMat()
	if err := gocv.GaussianBlur(img, &dst, image.Point{X: k, Y: k}, sigma, sigma, gocv.BorderReplicate); err != nil {
		return failed(dst, "gaussian blur", err)
	}
	return dst, nil
}

// SobelEdge returns the gradient magnitude of img's intensity rescaled so the
// strongest edge maps to 255.
func (h *Host) SobelEdge(img gocv.Mat) (gocv.Mat, error) {
	if err := validate(img, "sobel edge"); err != nil {
		return gocv.NewMat(), err
	}

	gray, err := conversion.ToGray(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer gray.Close()

	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	if err := gocv.Sobel(gray, &gx, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderDefault); err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: sobel x: %v", ErrInvalidImage, err)
	}
	if err := gocv.Sobel(gray, &gy, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderDefault); err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: sobel y: %v", ErrInvalidImage, err)
	}

	mag := gocv.NewMat()
	defer mag.Close()
	if err := gocv.Magnitude(gx, gy, &mag); err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: magnitude: %v", ErrInvalidImage, err)
	}

	_, maxVal, _, _ := gocv.MinMaxLoc(mag)
	scale := 255.0 / (float64(maxVal) + sobelEpsilon)

	dst := gocv.NewMat()
	if err := mag.ConvertToWithParams(&dst, gocv.MatTypeCV8U, float32(scale), 0); err != nil {
		return failed(dst, "sobel rescale", err)
	}
	return dst, nil
}

// Sharpen applies an unsharp mask: img + amount*(img - blur(img)), saturated
// to 8 bits.
func (h *Host) Sharpen(img gocv.Mat, radius int, sigma, amount float64) (gocv.Mat, error) {
	blurred, err := h.GaussianBlur(img, radius, sigma)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer blurred.Close()

	dst := gocv.NewMat()
	if err := gocv.AddWeighted(img, 1+amount, blurred, -amount, 0, &dst); err != nil {
		return failed(dst, "unsharp mask", err)
	}
	return dst, nil
}

// HistEqualize equalizes brightness only. Single-channel images are equalized
// directly; BGRA input loses its alpha channel.
func (h *Host) HistEqualize(img gocv.Mat) (gocv.Mat, error) {
	if err := validate(img, "histogram equalization"); err != nil {
		return gocv.NewMat(), err
	}

	if img.Channels() == 1 {
		dst := gocv.NewMat()
		if err := gocv.EqualizeHist(img, &dst); err != nil {
			return failed(dst, "histogram equalization", err)
		}
		return dst, nil
	}

	bgr, err := conversion.ToBGR(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer bgr.Close()

	dst, err := conversion.EqualizeLuma(bgr)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return dst, nil
}
