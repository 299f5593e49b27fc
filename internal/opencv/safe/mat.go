package safe

import "gocv.io/x/gocv"

// Describe returns log fields for a mat.
func Describe(mat gocv.Mat) map[string]interface{} {
	return map[string]interface{}{
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
		"type":     mat.Type().String(),
	}
}

func getMatTypeSize(matType gocv.MatType) int {
	switch matType {
	case gocv.MatTypeCV8UC1:
		return 1
	case gocv.MatTypeCV8UC3:
		return 3
	case gocv.MatTypeCV8UC4:
		return 4
	case gocv.MatTypeCV32FC1:
		return 4
	default:
		return 1
	}
}

// SizeBytes is the pixel buffer size of mat.
func SizeBytes(mat gocv.Mat) int64 {
	return int64(mat.Rows()) * int64(mat.Cols()) * int64(getMatTypeSize(mat.Type()))
}
