package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpu-image-suite/internal/logger"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{"--input", "a.png", "--output", "b.png"}, envFrom(nil), logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "blur", cfg.Filter)
	assert.Equal(t, "gpu", cfg.Impl)
	assert.Equal(t, 3, cfg.Radius)
	assert.Equal(t, 1.5, cfg.Sigma)
	assert.Equal(t, 1.0, cfg.Amount)
	assert.Equal(t, "a.png", cfg.Input)
	assert.Equal(t, "b.png", cfg.Output)
	assert.False(t, cfg.UseHost())
}

func TestParseAllFlags(t *testing.T) {
	args := []string{
		"--filter", "sharpen", "--impl", "cpu",
		"--input", "in/x.jpg", "--output", "out/y.png",
		"--radius", "5", "--sigma", "2.25", "--amount", "0.5",
	}
	cfg, err := Parse(args, envFrom(nil), logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "sharpen", cfg.Filter)
	assert.True(t, cfg.UseHost())
	assert.Equal(t, 5, cfg.Radius)
	assert.Equal(t, 2.25, cfg.Sigma)
	params := cfg.FilterParams()
	assert.Equal(t, 0.5, params.Amount)
	assert.Equal(t, 5, params.Radius)
}

func TestParseMissingRequired(t *testing.T) {
	_, err := Parse(nil, envFrom(nil), logger.Nop())
	assert.ErrorIs(t, err, ErrMissingRequired)

	_, err = Parse([]string{"--input", "a.png"}, envFrom(nil), logger.Nop())
	assert.ErrorIs(t, err, ErrMissingRequired)

	_, err = Parse([]string{"--output", "b.png"}, envFrom(nil), logger.Nop())
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestParseMissingArgument(t *testing.T) {
	_, err := Parse([]string{"--input", "a.png", "--output"}, envFrom(nil), logger.Nop())
	require.ErrorIs(t, err, ErrMissingArgument)
	assert.Contains(t, err.Error(), "--output")
}

func TestParseValueIsNextTokenVerbatim(t *testing.T) {
	cfg, err := Parse([]string{"--input", "--output", "--output", "b.png"}, envFrom(nil), logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "--output", cfg.Input)
	assert.Equal(t, "b.png", cfg.Output)
}

func TestParseUnknownArgumentWarns(t *testing.T) {
	rec := logger.NewRecorder()
	cfg, err := Parse([]string{"--verbose", "--input", "a.png", "-x", "--output", "b.png"}, envFrom(nil), rec)
	require.NoError(t, err)
	assert.Equal(t, "a.png", cfg.Input)

	warnings := rec.Entries("warn")
	require.Len(t, warnings, 2)
	assert.Equal(t, "unknown argument", warnings[0].Message)
	assert.Equal(t, "--verbose", warnings[0].Fields["arg"])
	assert.Equal(t, "-x", warnings[1].Fields["arg"])
}

func TestParseInvalidValues(t *testing.T) {
	base := []string{"--input", "a.png", "--output", "b.png"}
	cases := [][]string{
		{"--radius", "three"},
		{"--sigma", "wide"},
		{"--radius", "-1"},
		{"--sigma", "0"},
		{"--amount", "-2"},
		{"--sigma", "NaN"},
		{"--sigma", "nan"},
		{"--sigma", "Inf"},
		{"--sigma", "+Inf"},
		{"--amount", "NaN"},
		{"--amount", "Inf"},
		{"--radius", "0x10"},
		{"--radius", "08x"},
	}
	for _, extra := range cases {
		_, err := Parse(append(append([]string{}, base...), extra...), envFrom(nil), logger.Nop())
		assert.ErrorIs(t, err, ErrInvalidValue, "%v", extra)
	}
}

func TestParseRadiusIsDecimal(t *testing.T) {
	base := []string{"--input", "a.png", "--output", "b.png"}
	for in, want := range map[string]int{"010": 10, "08": 8, "+4": 4, "0": 0} {
		cfg, err := Parse(append(append([]string{}, base...), "--radius", in), envFrom(nil), logger.Nop())
		require.NoError(t, err, in)
		assert.Equal(t, want, cfg.Radius, in)
	}
}

func TestParseKeepsUnknownFilterName(t *testing.T) {
	cfg, err := Parse([]string{"--filter", "nonsense", "--input", "a", "--output", "b"}, envFrom(nil), logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "nonsense", cfg.Filter)
}

func TestEnvironmentLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
filter = "sobel"
impl = "cpu"
radius = 7
sigma = 3.0
log_level = "warn"
redis_addr = "file:6379"
`), 0o644))

	env := envFrom(map[string]string{
		EnvConfigFile: path,
		EnvRedisAddr:  "localhost:6379",
		EnvDevice:     "mock",
	})
	cfg, err := Parse([]string{"--radius", "2", "--input", "a", "--output", "b"}, env, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "sobel", cfg.Filter)
	assert.Equal(t, "cpu", cfg.Impl)
	assert.Equal(t, 2, cfg.Radius)
	assert.Equal(t, 3.0, cfg.Sigma)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "mock", cfg.Device)
}

func TestConfigFileDeviceKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte("device = \"mock\"\namount = 0.25\n"), 0o644))

	cfg, err := FromEnvironment(envFrom(map[string]string{EnvConfigFile: path}))
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.Device)
	assert.Equal(t, 0.25, cfg.Amount)
}

func TestEnvironmentLogLevel(t *testing.T) {
	cfg, err := FromEnvironment(envFrom(map[string]string{EnvDebug: "1"}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	cfg, err = FromEnvironment(envFrom(map[string]string{EnvDebug: "1", EnvLogLevel: "error"}))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestConfigFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := FromEnvironment(envFrom(map[string]string{EnvConfigFile: filepath.Join(dir, "missing.toml")}))
	assert.ErrorIs(t, err, ErrInvalidValue)

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("colour = \"red\"\n"), 0o644))
	_, err = FromEnvironment(envFrom(map[string]string{EnvConfigFile: unknown}))
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "colour")
}

func TestUsageListsFlags(t *testing.T) {
	usage := Usage()
	for _, flag := range []string{"--filter", "--impl", "--input", "--output", "--radius", "--sigma", "--amount"} {
		assert.Contains(t, usage, flag)
	}
	assert.Contains(t, usage, "Usage: gpu-image-suite")
}
