package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gpu-image-suite/internal/config"
	"gpu-image-suite/internal/device"
	"gpu-image-suite/internal/filters"
	"gpu-image-suite/internal/logger"
	"gpu-image-suite/internal/pipeline"
	"gpu-image-suite/internal/report"
)

const (
	AppName    = "gpu-image-suite"
	AppVersion = "1.0.0"

	sinkTimeout = 3 * time.Second
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one benchmark and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)

	return exitCode(cmd.ExecuteContext(ctx), stderr)
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:                AppName,
		Short:              "Benchmark image filters on the host and device paths",
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return benchmark(cmd.Context(), args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func benchmark(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.FromEnvironment(os.Getenv)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLoggerTo(stderr, logger.ParseLevel(cfg.LogLevel))

	if err := cfg.ParseArgs(args, log); err != nil {
		return err
	}

	backend, err := device.Select(cfg.Device)
	if err != nil {
		return err
	}

	log.Info("Main", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
		"filter":     cfg.Filter,
		"impl":       cfg.Impl,
		"device":     backend.Info().Name,
	})

	sink := openSink(ctx, cfg, log)
	defer sink.Close()

	result, err := pipeline.NewRunner(cfg, filters.NewHost(), backend, log).Run(ctx)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
	defer cancel()
	if err := sink.Publish(publishCtx, result); err != nil {
		log.Warning("Main", "result not published", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return report.WriteLines(stdout, result)
}

func openSink(ctx context.Context, cfg *config.Config, log logger.Logger) report.Sink {
	if cfg.RedisAddr == "" {
		return report.NopSink()
	}

	dialCtx, cancel := context.WithTimeout(ctx, sinkTimeout)
	defer cancel()

	sink, err := report.NewRedisSink(dialCtx, cfg.RedisAddr)
	if err != nil {
		log.Warning("Main", "redis sink unavailable", map[string]interface{}{
			"addr":  cfg.RedisAddr,
			"error": err.Error(),
		})
		return report.NopSink()
	}
	return sink
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, filters.ErrUnknownFilter):
		fmt.Fprint(stderr, config.Usage())
		return 2
	case errors.Is(err, pipeline.ErrDecode):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprint(stderr, config.Usage())
		return 1
	}
}
