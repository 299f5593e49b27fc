package timing

import "time"

// Timer measures the wall-clock time between Begin and End.
type Timer interface {
	Begin()
	// End returns the elapsed time since the last Begin. Calling it again
	// measures from the same mark.
	End() float64
}

// HostTimer reports milliseconds using the monotonic clock.
type HostTimer struct {
	start time.Time
}

func NewHostTimer() *HostTimer {
	return &HostTimer{}
}

func (t *HostTimer) Begin() {
	t.start = time.Now()
}

// End returns 0 if Begin was never called.
func (t *HostTimer) End() float64 {
	if t.start.IsZero() {
		return 0
	}
	return float64(time.Since(t.start)) / float64(time.Millisecond)
}

// DeviceTimer stands in for accelerator event timing. It always reports 0.
type DeviceTimer struct{}

func NewDeviceTimer() *DeviceTimer {
	return &DeviceTimer{}
}

func (DeviceTimer) Begin() {}

func (DeviceTimer) End() float64 { return 0 }

// Measure runs fn between Begin and End of t.
func Measure(t Timer, fn func()) float64 {
	t.Begin()
	fn()
	return t.End()
}
