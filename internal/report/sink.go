package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultStream = "gpubench:results"
	dialTimeout   = 2 * time.Second
)

// Sink receives finished results.
type Sink interface {
	Publish(ctx context.Context, r *Result) error
	Close() error
}

type nopSink struct{}

func NopSink() Sink { return nopSink{} }

func (nopSink) Publish(context.Context, *Result) error { return nil }
func (nopSink) Close() error                           { return nil }

// RedisSink appends each result as JSON to a Redis stream.
type RedisSink struct {
	client *redis.Client
	stream string
}

func NewRedisSink(ctx context.Context, addr string) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: dialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisSink{client: client, stream: DefaultStream}, nil
}

func (s *RedisSink) Publish(ctx context.Context, r *Result) error {
	values, err := streamValues(r)
	if err != nil {
		return err
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{Stream: s.stream, Values: values}).Err()
}

func (s *RedisSink) Close() error { return s.client.Close() }

func streamValues(r *Result) (map[string]any, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return map[string]any{
		"filter": r.Filter,
		"data":   b,
	}, nil
}
