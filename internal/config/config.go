// Package config turns program arguments, environment and an optional TOML
// defaults file into the benchmark configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"gpu-image-suite/internal/filters"
	"gpu-image-suite/internal/logger"
)

const (
	ImplCPU = "cpu"
	ImplGPU = "gpu"

	EnvConfigFile = "GPUBENCH_CONFIG"
	EnvRedisAddr  = "GPUBENCH_REDIS_ADDR"
	EnvDevice     = "GPUBENCH_DEVICE"
	EnvLogLevel   = "LOG_LEVEL"
	EnvDebug      = "DEBUG"
)

var (
	ErrMissingArgument = errors.New("missing argument")
	ErrMissingRequired = errors.New("missing required field")
	ErrInvalidValue    = errors.New("invalid value")
)

type Config struct {
	Filter string  `toml:"filter"`
	Impl   string  `toml:"impl"`
	Input  string  `toml:"-"`
	Output string  `toml:"-"`
	Radius int     `toml:"radius"`
	Sigma  float64 `toml:"sigma"`
	Amount float64 `toml:"amount"`

	LogLevel  string `toml:"log_level"`
	RedisAddr string `toml:"redis_addr"`
	Device    string `toml:"device"`
}

func Default() *Config {
	return &Config{
		Filter:   filters.Blur,
		Impl:     ImplGPU,
		Radius:   3,
		Sigma:    1.5,
		Amount:   filters.DefaultAmount,
		LogLevel: "info",
	}
}

// UseHost reports whether the host result is the one to persist.
func (c *Config) UseHost() bool {
	return c.Impl == ImplCPU
}

// FilterParams returns the tunables handed to the filter set.
func (c *Config) FilterParams() filters.Params {
	return filters.Params{Radius: c.Radius, Sigma: c.Sigma, Amount: c.Amount}
}

// FromEnvironment layers the TOML file named by GPUBENCH_CONFIG and the
// environment over the defaults.
func FromEnvironment(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path := getenv(EnvConfigFile); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	switch {
	case getenv(EnvLogLevel) != "":
		cfg.LogLevel = getenv(EnvLogLevel)
	case getenv(EnvDebug) == "1":
		cfg.LogLevel = "debug"
	}
	if addr := getenv(EnvRedisAddr); addr != "" {
		cfg.RedisAddr = addr
	}
	if dev := getenv(EnvDevice); dev != "" {
		cfg.Device = dev
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("%w: config file %s: %v", ErrInvalidValue, path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: config file %s: unknown keys %s", ErrInvalidValue, path, strings.Join(keys, ", "))
	}

	return nil
}

// decimalInt is a base-10 int flag. pflag's IntVar also accepts 0x and
// leading-zero octal forms.
type decimalInt int

func (d *decimalInt) String() string { return strconv.Itoa(int(*d)) }

func (d *decimalInt) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*d = decimalInt(v)
	return nil
}

func (d *decimalInt) Type() string { return "int" }

func (c *Config) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("gpu-image-suite", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.StringVar(&c.Filter, "filter", c.Filter, "filter to apply: "+strings.Join(filters.Names(), "|"))
	fs.StringVar(&c.Impl, "impl", c.Impl, "result to save: cpu|gpu")
	fs.StringVar(&c.Input, "input", c.Input, "input image path (required)")
	fs.StringVar(&c.Output, "output", c.Output, "output image path (required)")
	fs.Var((*decimalInt)(&c.Radius), "radius", "gaussian kernel radius")
	fs.Float64Var(&c.Sigma, "sigma", c.Sigma, "gaussian standard deviation")
	fs.Float64Var(&c.Amount, "amount", c.Amount, "unsharp mask strength")
	return fs
}

// ParseArgs applies program arguments (without the program name) to c. The
// token after a recognised flag is always taken as its value. Unknown tokens
// are logged and skipped.
func (c *Config) ParseArgs(args []string, log logger.Logger) error {
	fs := c.flagSet()

	for i := 0; i < len(args); i++ {
		arg := args[i]

		var flag *pflag.Flag
		if name, ok := strings.CutPrefix(arg, "--"); ok && name != "" {
			flag = fs.Lookup(name)
		}
		if flag == nil {
			log.Warning("Config", "unknown argument", map[string]interface{}{
				"arg": arg,
			})
			continue
		}

		if i+1 >= len(args) {
			return fmt.Errorf("%w for %s", ErrMissingArgument, arg)
		}
		i++
		if err := fs.Set(flag.Name, args[i]); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	}

	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Input == "" || c.Output == "" {
		return fmt.Errorf("%w: input/output required", ErrMissingRequired)
	}
	if c.Radius < 0 {
		return fmt.Errorf("%w: radius must be >= 0, got %d", ErrInvalidValue, c.Radius)
	}
	if !(c.Sigma > 0) || math.IsInf(c.Sigma, 0) {
		return fmt.Errorf("%w: sigma must be finite and > 0, got %g", ErrInvalidValue, c.Sigma)
	}
	if !(c.Amount >= 0) || math.IsInf(c.Amount, 0) {
		return fmt.Errorf("%w: amount must be finite and >= 0, got %g", ErrInvalidValue, c.Amount)
	}
	return nil
}

// Parse builds the configuration from the environment and args.
func Parse(args []string, getenv func(string) string, log logger.Logger) (*Config, error) {
	cfg, err := FromEnvironment(getenv)
	if err != nil {
		return nil, err
	}
	if err := cfg.ParseArgs(args, log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Usage() string {
	var b strings.Builder
	b.WriteString("Usage: gpu-image-suite --filter [blur|sobel|sharpen|histeq] --impl [cpu|gpu]\n")
	b.WriteString("                       --input <path> --output <path> [--radius N --sigma S]\n\n")
	b.WriteString("Flags:\n")
	b.WriteString(Default().flagSet().FlagUsages())
	return b.String()
}
