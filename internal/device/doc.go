// Package device holds the accelerator side of the benchmark.
//
// A Backend mirrors the host filter set and supplies its own timer. No
// accelerator kernels ship with this repository: the default backend is
// Unimplemented, whose filters return ErrNotImplemented and whose timer
// always reports zero. A real backend registers itself with Register.
package device
