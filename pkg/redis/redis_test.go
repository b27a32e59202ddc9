package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 需要真实 Redis：TEST_REDIS_ADDR=localhost:6379
func setupRedis(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置 TEST_REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return newClient(rdb, time.Minute, zap.NewNop())
}

func TestNewClient_DefaultTTL(t *testing.T) {
	c := newClient(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"}), 0, zap.NewNop())
	defer c.Close()
	assert.Equal(t, 10*time.Minute, c.ttl)
}

func TestLock_ExclusiveUntilUnlocked(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	token, err := c.Lock(ctx, "sweep", time.Second*5)
	require.NoError(t, err)

	_, err = c.Lock(ctx, "sweep", time.Second*5)
	assert.ErrorIs(t, err, ErrLockHeld)

	// 错误的 token 不会释放他人的锁
	require.NoError(t, c.Unlock(ctx, "sweep", "other"))
	_, err = c.Lock(ctx, "sweep", time.Second*5)
	assert.ErrorIs(t, err, ErrLockHeld)

	require.NoError(t, c.Unlock(ctx, "sweep", token))
	_, err = c.Lock(ctx, "sweep", time.Second*5)
	assert.NoError(t, err)
}

func TestCurrentPeriodCache(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	got, gen, err := c.GetCurrentPeriod(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(0), gen)

	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	want := &CachedPeriod{PeriodID: "p1", Name: "2025-2026", StartDate: start, EndDate: start.AddDate(1, 0, 0)}
	filled, err := c.FillCurrentPeriod(ctx, want, gen)
	require.NoError(t, err)
	assert.True(t, filled)

	got, _, err = c.GetCurrentPeriod(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.PeriodID, got.PeriodID)
	assert.True(t, want.EndDate.Equal(got.EndDate))

	require.NoError(t, c.InvalidateCurrentPeriod(ctx))
	got, gen, err = c.GetCurrentPeriod(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int64(1), gen)
}

func TestFillCurrentPeriod_RejectsStaleGeneration(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	_, gen, err := c.GetCurrentPeriod(ctx)
	require.NoError(t, err)

	// 读者回源期间发生了切换
	require.NoError(t, c.InvalidateCurrentPeriod(ctx))

	filled, err := c.FillCurrentPeriod(ctx, &CachedPeriod{PeriodID: "old"}, gen)
	require.NoError(t, err)
	assert.False(t, filled)

	got, _, err := c.GetCurrentPeriod(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "旧值不应被写回")
}

func TestGetCurrentPeriod_IgnoresCorruptEntry(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.rdb.Set(ctx, currentPeriodKey, "{not json", time.Minute).Err())
	got, _, err := c.GetCurrentPeriod(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCheckRateLimit(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := c.CheckRateLimit(ctx, "1.2.3.4:/api/v1/sessions", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "第 %d 次应放行", i+1)
	}
	ok, err := c.CheckRateLimit(ctx, "1.2.3.4:/api/v1/sessions", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := c.rdb.TTL(ctx, rateLimitPrefix+"1.2.3.4:/api/v1/sessions").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
