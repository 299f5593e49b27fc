package device

import (
	"errors"
	"fmt"
	"sync"

	"gpu-image-suite/internal/filters"
	"gpu-image-suite/internal/timing"
)

var (
	// ErrNotImplemented is returned by filters of a backend that has no kernels.
	ErrNotImplemented = errors.New("device: not implemented")

	// ErrUnknownBackend is returned by Select for an unrecognised name.
	ErrUnknownBackend = errors.New("device: unknown backend")
)

// BackendInfo describes a backend for logs and reports.
type BackendInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Backend is implemented by device filter backends.
type Backend interface {
	filters.Set
	Info() BackendInfo
	Available() bool
	// NewTimer returns the timer matching the backend's execution model.
	NewTimer() timing.Timer
}

var (
	backendMu sync.RWMutex
	backend   Backend
)

// Register installs b as the active backend. Passing nil restores the
// unimplemented default.
func Register(b Backend) {
	backendMu.Lock()
	backend = b
	backendMu.Unlock()
}

// Current returns the active backend.
func Current() Backend {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	if b == nil {
		return Unimplemented{}
	}
	return b
}

// Select returns the backend registered under name. An empty name means the
// current backend.
func Select(name string) (Backend, error) {
	switch name {
	case "":
		return Current(), nil
	case "none", "unimplemented":
		return Unimplemented{}, nil
	case "mock":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}
