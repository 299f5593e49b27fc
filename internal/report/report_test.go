package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLines(&buf, &Result{HostMS: 12.3456789, DeviceMS: 0}))

	assert.Equal(t, "CPU_ms,12.3457\nGPU_kernel_ms,0\n", buf.String())
}

func TestWriteLinesShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLines(&buf, &Result{HostMS: 0.0421, DeviceMS: 1500}))

	re := regexp.MustCompile(`^CPU_ms,[0-9.e+-]+\nGPU_kernel_ms,[0-9.e+-]+\n$`)
	assert.Regexp(t, re, buf.String())
}

func TestStreamValuesCarryJSON(t *testing.T) {
	r := &Result{
		Filter:        "sobel",
		Impl:          "cpu",
		HostMS:        3.5,
		Persisted:     "cpu",
		DeviceBackend: "unimplemented",
		Parity:        &Parity{MaxAbsDiff: 1, MeanAbsDiff: 0.25},
		Timestamp:     time.Unix(1700000000, 0).UTC(),
	}

	values, err := streamValues(r)
	require.NoError(t, err)
	assert.Equal(t, "sobel", values["filter"])

	var decoded Result
	require.NoError(t, json.Unmarshal(values["data"].([]byte), &decoded))
	assert.Equal(t, r.Filter, decoded.Filter)
	assert.Equal(t, r.HostMS, decoded.HostMS)
	assert.Equal(t, r.DeviceBackend, decoded.DeviceBackend)
	assert.Equal(t, r.Parity, decoded.Parity)
	assert.True(t, r.Timestamp.Equal(decoded.Timestamp))
}

func TestCurrentHost(t *testing.T) {
	h := CurrentHost()
	assert.Equal(t, runtime.GOOS, h.OS)
	assert.Equal(t, runtime.GOARCH, h.Arch)
	assert.Positive(t, h.NumCPU)
}

func TestNopSink(t *testing.T) {
	s := NopSink()
	assert.NoError(t, s.Publish(context.Background(), &Result{}))
	assert.NoError(t, s.Close())
}

func TestRedisSinkUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewRedisSink(ctx, "127.0.0.1:1")
	assert.Error(t, err)
}

// TestRedisSinkPublish needs a server; set GPUBENCH_TEST_REDIS_ADDR or run one
// on localhost:6379.
func TestRedisSinkPublish(t *testing.T) {
	addr := os.Getenv("GPUBENCH_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sink, err := NewRedisSink(ctx, addr)
	if err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	defer sink.Close()

	sink.stream = fmt.Sprintf("gpubench:test:%d", time.Now().UnixNano())
	defer sink.client.Del(context.Background(), sink.stream)

	in := &Result{Filter: "sharpen", Impl: "cpu", HostMS: 4.5, Persisted: "cpu"}
	require.NoError(t, sink.Publish(ctx, in))

	msgs, err := sink.client.XRange(ctx, sink.stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "sharpen", msgs[0].Values["filter"])

	data, ok := msgs[0].Values["data"].(string)
	require.True(t, ok)
	var out Result
	require.NoError(t, json.Unmarshal([]byte(data), &out))
	assert.Equal(t, "cpu", out.Persisted)
	assert.Equal(t, 4.5, out.HostMS)
}
