package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/clothingsearch/internal/application/services"
)

type countingPurger struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (p *countingPurger) PurgeExpired(ctx context.Context) (int64, error) {
	p.calls.Add(1)
	return p.n, p.err
}

func TestCacheHousekeepingService_RunOnce(t *testing.T) {
	svc := services.NewCacheHousekeepingService(&countingPurger{n: 3})

	n, err := svc.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestCacheHousekeepingService_RunOnceError(t *testing.T) {
	svc := services.NewCacheHousekeepingService(&countingPurger{n: 3, err: assert.AnError})

	n, err := svc.RunOnce(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, n)
}

func TestCacheHousekeepingService_StartPeriodicPurge(t *testing.T) {
	purger := &countingPurger{}
	svc := services.NewCacheHousekeepingService(purger)
	ctx, cancel := context.WithCancel(context.Background())

	svc.StartPeriodicPurge(ctx, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return purger.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-svc.Done():
	case <-time.After(time.Second):
		t.Fatal("housekeeping loop did not stop")
	}
}

func TestCacheHousekeepingService_PurgesRealCache(t *testing.T) {
	ctx := context.Background()
	repo := &memCacheRepo{}
	clock := newClock()
	cache := services.NewSearchCacheService(repo, seededStores(), time.Minute).WithClock(clock.Now)
	require.NoError(t, cache.Put(ctx, "nike", "", 1, nil))
	clock.Advance(time.Minute)

	n, err := services.NewCacheHousekeepingService(cache).RunOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Zero(t, repo.count())
}
