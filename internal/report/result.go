// Package report formats and publishes the outcome of a benchmark run.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	HostLabel   = "CPU_ms"
	DeviceLabel = "GPU_kernel_ms"
)

// Parity compares the host and device images when both exist.
type Parity struct {
	MaxAbsDiff  float64 `json:"max_abs_diff"`
	MeanAbsDiff float64 `json:"mean_abs_diff"`
}

// Result is the observational record of one run.
type Result struct {
	Filter   string  `json:"filter"`
	Impl     string  `json:"impl"`
	Input    string  `json:"input"`
	Output   string  `json:"output"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Channels int     `json:"channels"`
	HostMS   float64 `json:"host_ms"`
	DeviceMS float64 `json:"device_ms"`

	// Persisted is "cpu" or "gpu" depending on whose image was written.
	Persisted     string    `json:"persisted"`
	DeviceBackend string    `json:"device_backend"`
	DeviceRan     bool      `json:"device_ran"`
	Parity        *Parity   `json:"parity,omitempty"`
	Host          HostInfo  `json:"host"`
	Timestamp     time.Time `json:"timestamp"`
}

func formatMS(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// WriteLines prints the two label,value lines.
func WriteLines(w io.Writer, r *Result) error {
	_, err := fmt.Fprintf(w, "%s,%s\n%s,%s\n", HostLabel, formatMS(r.HostMS), DeviceLabel, formatMS(r.DeviceMS))
	return err
}
