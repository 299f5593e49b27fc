package device

import (
	"gpu-image-suite/internal/filters"
	"gpu-image-suite/internal/timing"
)

// Mock is a host-backed device backend for development and tests. It runs
// the host filters and times them with a host timer.
type Mock struct {
	*filters.Host
}

func NewMock() *Mock {
	return &Mock{Host: filters.NewHost()}
}

func (m *Mock) Info() BackendInfo {
	return BackendInfo{
		Name:        "mock",
		Version:     "0.1",
		Description: "CPU-backed mock device backend",
	}
}

func (m *Mock) Available() bool { return true }

func (m *Mock) NewTimer() timing.Timer { return timing.NewHostTimer() }

// RegisterMock registers the mock backend as the active backend.
func RegisterMock() {
	Register(NewMock())
}
