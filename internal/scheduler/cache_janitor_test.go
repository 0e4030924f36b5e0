package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/records-api/internal/cache"
	"github.com/vfg2006/records-api/internal/config"
)

type fakePurger struct {
	calls atomic.Int32
}

func (f *fakePurger) PurgeExpired() int {
	f.calls.Add(1)
	return 2
}

func (f *fakePurger) Len() int {
	return 1
}

func TestCacheJanitorService_PurgeRemovesExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	resultCache := cache.New(time.Minute, cache.WithClock(func() time.Time { return now }))

	_, err := cache.GetOrCompute(context.Background(), resultCache, cache.StatsKey(), time.Second, func(context.Context) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)
	_, err = cache.GetOrCompute(context.Background(), resultCache, cache.Key{Operation: cache.OperationAggregate}, time.Hour, func(context.Context) (int, error) {
		return 2, nil
	})
	require.NoError(t, err)

	now = now.Add(time.Minute)

	janitor := NewCacheJanitorService(resultCache, &config.Config{CacheJanitor: config.CacheJanitor{CronSchedule: "*/5 * * * *", Enabled: true}})
	janitor.purge()

	assert.Equal(t, 1, resultCache.Len())

	status := janitor.GetStatus()
	assert.Equal(t, 1, status["last_purged"])
	assert.Equal(t, 1, status["cache_entries"])
	assert.Equal(t, false, status["running"])
}

func TestCacheJanitorService_TriggerManualSync(t *testing.T) {
	purger := &fakePurger{}
	janitor := NewCacheJanitorService(purger, &config.Config{})

	janitor.TriggerManualSync()

	assert.Eventually(t, func() bool {
		return purger.calls.Load() == 1 && janitor.GetStatus()["last_purged"] == 2
	}, time.Second, 10*time.Millisecond)
}

func TestCacheJanitorService_StartDisabled(t *testing.T) {
	janitor := NewCacheJanitorService(&fakePurger{}, &config.Config{})

	assert.NoError(t, janitor.Start(context.Background()))
}

func TestCacheJanitorService_StartInvalidCron(t *testing.T) {
	janitor := NewCacheJanitorService(&fakePurger{}, &config.Config{CacheJanitor: config.CacheJanitor{CronSchedule: "não é cron", Enabled: true}})

	assert.Error(t, janitor.Start(context.Background()))
}

func TestCacheJanitorService_StartStopsWithContext(t *testing.T) {
	janitor := NewCacheJanitorService(&fakePurger{}, &config.Config{CacheJanitor: config.CacheJanitor{CronSchedule: "*/5 * * * *", Enabled: true}})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, janitor.Start(ctx))
	assert.True(t, janitor.scheduler.IsRunning())

	cancel()
	assert.Eventually(t, func() bool {
		return !janitor.scheduler.IsRunning()
	}, time.Second, 10*time.Millisecond)
}
