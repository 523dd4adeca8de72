package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func newTestRedisLimiter(client redisEvaler, window time.Duration) *redisOTPRateLimiter {
	return &redisOTPRateLimiter{
		client:  client,
		window:  window,
		max:     3,
		prefix:  "kova:otp:rl:",
		timeout: time.Second,
	}
}

func TestRedisOTPRateLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *redisOTPRateLimiter
		if !l.Allow(ctx, "user@example.com") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := newTestRedisLimiter(&mockRedisEvaler{result: 1}, time.Minute)
		if l.Allow(ctx, "   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := newTestRedisLimiter(mock, 2*time.Minute)
		if !l.Allow(ctx, " User@Example.com ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "kova:otp:rl:user@example.com" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisOTPAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := newTestRedisLimiter(&mockRedisEvaler{result: 4}, time.Minute)
		if l.Allow(ctx, "user@example.com") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := newTestRedisLimiter(&mockRedisEvaler{err: errors.New("redis down")}, time.Minute)
		if !l.Allow(ctx, "user@example.com") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}

func TestRedisOTPRateLimiter_Miniredis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	l := NewRedisOTPRateLimiter(rdb, time.Minute, 2)
	ctx := context.Background()

	if !l.Allow(ctx, "a@x.com") || !l.Allow(ctx, "a@x.com") {
		t.Fatalf("expected first two requests allowed")
	}
	if l.Allow(ctx, "a@x.com") {
		t.Fatalf("expected third request denied")
	}
	if !l.Allow(ctx, "b@x.com") {
		t.Fatalf("expected other key unaffected")
	}

	mr.FastForward(time.Minute + time.Second)
	if !l.Allow(ctx, "a@x.com") {
		t.Fatalf("expected window reset after expiry")
	}
}

func TestNewRedisOTPRateLimiter_NilClient(t *testing.T) {
	if l := NewRedisOTPRateLimiter(nil, time.Minute, 3); l != nil {
		t.Fatalf("expected nil limiter for nil client")
	}
}
