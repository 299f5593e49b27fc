package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"gpu-image-suite/internal/config"
	"gpu-image-suite/internal/device"
	"gpu-image-suite/internal/filters"
	"gpu-image-suite/internal/logger"
	"gpu-image-suite/internal/report"
	"gpu-image-suite/internal/timing"
)

// Runner performs one benchmark run: load, filter on host and device, save.
type Runner struct {
	cfg     *config.Config
	host    filters.Set
	device  device.Backend
	loader  ImageLoader
	saver   ImageSaver
	logger  logger.Logger
	tracker *timing.Tracker
	now     func() time.Time
}

func NewRunner(cfg *config.Config, host filters.Set, dev device.Backend, log logger.Logger) *Runner {
	tracker := timing.NewTracker()
	return &Runner{
		cfg:     cfg,
		host:    host,
		device:  dev,
		loader:  NewImageLoader(log, tracker),
		saver:   NewImageSaver(log, tracker),
		logger:  log,
		tracker: tracker,
		now:     time.Now,
	}
}

// Tracker exposes the stage timings of the last run.
func (r *Runner) Tracker() *timing.Tracker {
	return r.tracker
}

func (r *Runner) Run(ctx context.Context) (*report.Result, error) {
	r.tracker.Reset("")

	input, err := r.loader.Load(ctx, r.cfg.Input)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	if !filters.IsKnown(r.cfg.Filter) {
		return nil, fmt.Errorf("%w: %q", filters.ErrUnknownFilter, r.cfg.Filter)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := r.cfg.FilterParams()
	info := r.device.Info()

	var hostOut gocv.Mat
	var hostErr error
	hostMS := timing.Measure(timing.NewHostTimer(), func() {
		hostOut, hostErr = filters.Apply(r.host, r.cfg.Filter, input.Mat, params)
	})
	defer hostOut.Close()
	if hostErr != nil {
		return nil, fmt.Errorf("host %s: %w", r.cfg.Filter, hostErr)
	}

	var devOut gocv.Mat
	var devErr error
	var devMS float64
	deviceRan := r.device.Available()
	if deviceRan {
		devMS = timing.Measure(r.device.NewTimer(), func() {
			devOut, devErr = filters.Apply(r.device, r.cfg.Filter, input.Mat, params)
		})
	} else {
		devOut = gocv.NewMat()
		r.logger.Warning("Runner", "device backend unavailable", map[string]interface{}{
			"backend": info.Name,
			"filter":  r.cfg.Filter,
		})
	}
	defer devOut.Close()

	switch {
	case errors.Is(devErr, device.ErrNotImplemented):
		deviceRan = false
		r.logger.Warning("Runner", "device backend has no implementation", map[string]interface{}{
			"backend": info.Name,
			"filter":  r.cfg.Filter,
		})
	case devErr != nil:
		return nil, fmt.Errorf("device %s: %w", r.cfg.Filter, devErr)
	}

	toSave, persisted := devOut, config.ImplGPU
	if r.cfg.UseHost() {
		toSave, persisted = hostOut, config.ImplCPU
	} else if !deviceRan {
		r.logger.Warning("Runner", "no device result, saving host result", map[string]interface{}{
			"impl": r.cfg.Impl,
		})
		toSave, persisted = hostOut, config.ImplCPU
	}

	if err := r.saver.Save(ctx, r.cfg.Output, toSave); err != nil {
		return nil, err
	}

	result := &report.Result{
		Filter:        r.cfg.Filter,
		Impl:          r.cfg.Impl,
		Input:         r.cfg.Input,
		Output:        r.cfg.Output,
		Width:         input.Width,
		Height:        input.Height,
		Channels:      input.Channels,
		HostMS:        hostMS,
		DeviceMS:      devMS,
		Persisted:     persisted,
		DeviceBackend: info.Name,
		DeviceRan:     deviceRan,
		Host:          report.CurrentHost(),
		Timestamp:     r.now(),
	}

	if deviceRan {
		parity, err := CompareOutputs(hostOut, devOut)
		if err != nil {
			r.logger.Warning("Runner", "host and device outputs not comparable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			result.Parity = parity
		}
	}

	fields := map[string]interface{}{
		"filter":    result.Filter,
		"host_ms":   result.HostMS,
		"device_ms": result.DeviceMS,
	}
	for stage := range r.tracker.GetAllTimings() {
		fields[stage+"_ms"] = r.tracker.GetAverageTime(stage).Seconds() * 1000
	}
	r.logger.Debug("Runner", "run complete", fields)

	return result, nil
}
