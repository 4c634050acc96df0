package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/quizsystem/internal/telemetry"
)

func TestMonitorRedis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	rs := miniredis.RunT(t)
	rc := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{rs.Addr()}})
	t.Cleanup(func() { _ = rc.Close() })

	require.NoError(t, telemetry.MonitorRedis(rc))

	require.NoError(t, rc.Set(ctx, "k", "v", 0).Err())
	got, err := rc.Get(ctx, "k").Result()
	require.NoError(t, err)
	require.Equal(t, "v", got)

	_, err = rc.Get(ctx, "missing").Result()
	require.ErrorIs(t, err, redis.Nil, "hook should pass redis.Nil through untouched")
}
