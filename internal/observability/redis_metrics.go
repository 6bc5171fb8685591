package observability

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// redisMetricsHook counts keyspace hits/misses and failures for every
// command that flows through the client.
type redisMetricsHook struct{}

func NewRedisMetricsHook() redis.Hook {
	initInstruments()
	return redisMetricsHook{}
}

func (redisMetricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			redisErrors.Add(ctx, 1, metric.WithAttributes(
				attribute.String("phase", "dial"),
				attribute.String("class", classifyRedisError(err)),
			))
		}
		return conn, err
	}
}

func (redisMetricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		recordCommandOutcome(ctx, cmd)
		return err
	}
}

func (redisMetricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		for _, cmd := range cmds {
			recordCommandOutcome(ctx, cmd)
		}
		return err
	}
}

func recordCommandOutcome(ctx context.Context, cmd redis.Cmder) {
	if hits, misses, ok := classifyKeyspaceOutcome(cmd); ok {
		if hits > 0 {
			redisKeyspaceHits.Add(ctx, hits)
		}
		if misses > 0 {
			redisKeyspaceMisses.Add(ctx, misses)
		}
		return
	}
	if err := cmd.Err(); err != nil && !errors.Is(err, redis.Nil) {
		redisErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("phase", "command"),
			attribute.String("class", classifyRedisError(err)),
		))
	}
}

// classifyKeyspaceOutcome maps read commands onto hit/miss counts. Only
// GET and MGET are classified; everything else reports ok=false.
func classifyKeyspaceOutcome(cmd redis.Cmder) (hits, misses int64, ok bool) {
	switch strings.ToLower(cmd.Name()) {
	case "get":
		if errors.Is(cmd.Err(), redis.Nil) {
			return 0, 1, true
		}
		if cmd.Err() != nil {
			return 0, 0, false
		}
		return 1, 0, true
	case "mget":
		slice, isSlice := cmd.(*redis.SliceCmd)
		if !isSlice || cmd.Err() != nil {
			return 0, 0, false
		}
		for _, v := range slice.Val() {
			if v == nil {
				misses++
			} else {
				hits++
			}
		}
		return hits, misses, true
	default:
		return 0, 0, false
	}
}

func classifyRedisError(err error) string {
	if err == nil {
		return "none"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection") || strings.Contains(msg, "refused") || strings.Contains(msg, "broken pipe"):
		return "connection"
	default:
		return "other"
	}
}
