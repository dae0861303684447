package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/clothingsearch/internal/application/services"
	"github.com/zatekoja/clothingsearch/internal/domain/entities"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func TestSearchCacheService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := &memCacheRepo{}
	clock := newClock()
	cache := services.NewSearchCacheService(repo, seededStores(), 6*time.Hour).WithClock(clock.Now)

	products := []entities.Product{product("Air Max", "Hervis", "Shoes", "89.99")}
	require.NoError(t, cache.Put(ctx, "nike", "", 1, products))

	got, ok, err := cache.Get(ctx, "nike", "", 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Entry.StoreID, "anchored to the first store of the country")
	assert.Equal(t, clock.now.Add(6*time.Hour), got.Entry.ExpiresAt)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "Air Max", got.Products[0].Name)
	assert.True(t, products[0].Price.Equal(got.Products[0].Price))
}

func TestSearchCacheService_ExactKeyMatch(t *testing.T) {
	ctx := context.Background()
	cache := services.NewSearchCacheService(&memCacheRepo{}, seededStores(), time.Hour)

	require.NoError(t, cache.Put(ctx, "nike", "", 1, nil))

	for _, tc := range []struct {
		query, category string
		country         int
	}{
		{"Nike", "", 1},
		{"nike", "Shoes", 1},
		{"nike", "", 3},
	} {
		_, ok, err := cache.Get(ctx, tc.query, tc.category, tc.country)
		assert.NoError(t, err)
		assert.False(t, ok, "%+v must miss", tc)
	}
}

func TestSearchCacheService_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	cache := services.NewSearchCacheService(&memCacheRepo{}, seededStores(), 6*time.Hour).WithClock(clock.Now)

	require.NoError(t, cache.Put(ctx, "nike", "", 1, nil))

	clock.Advance(6*time.Hour - time.Second)
	_, ok, _ := cache.Get(ctx, "nike", "", 1)
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok, _ = cache.Get(ctx, "nike", "", 1)
	assert.False(t, ok, "now == expiresAt is a miss")
}

func TestSearchCacheService_CorruptedEntryIsPurged(t *testing.T) {
	ctx := context.Background()
	repo := &memCacheRepo{}
	clock := newClock()
	cache := services.NewSearchCacheService(repo, seededStores(), time.Hour).WithClock(clock.Now)

	require.NoError(t, repo.Create(ctx, &entities.SearchCacheEntry{
		Query: "nike", StoreID: 3, CountryID: 1,
		Results:   []byte("{not json"),
		CreatedAt: clock.now, ExpiresAt: clock.now.Add(time.Hour),
	}))

	_, ok, err := cache.Get(ctx, "nike", "", 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, services.ErrCacheCorrupted)
	assert.Equal(t, []int64{1}, repo.deleted)
	assert.Zero(t, repo.count())
}

func TestSearchCacheService_ReadErrorIsMiss(t *testing.T) {
	repo := &memCacheRepo{findErr: assert.AnError}
	cache := services.NewSearchCacheService(repo, seededStores(), time.Hour)

	_, ok, err := cache.Get(context.Background(), "nike", "", 1)
	assert.False(t, ok)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSearchCacheService_PutSkipsCountryWithoutStore(t *testing.T) {
	repo := &memCacheRepo{}
	cache := services.NewSearchCacheService(repo, seededStores(), time.Hour)

	err := cache.Put(context.Background(), "nike", "", 99, nil)
	assert.NoError(t, err)
	assert.Zero(t, repo.count())
}

func TestSearchCacheService_PutWriteFailure(t *testing.T) {
	repo := &memCacheRepo{createErr: assert.AnError}
	cache := services.NewSearchCacheService(repo, seededStores(), time.Hour)

	err := cache.Put(context.Background(), "nike", "", 1, nil)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSearchCacheService_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	repo := &memCacheRepo{}
	clock := newClock()
	cache := services.NewSearchCacheService(repo, seededStores(), time.Hour).WithClock(clock.Now)

	require.NoError(t, cache.Put(ctx, "old", "", 1, nil))
	clock.Advance(2 * time.Hour)
	require.NoError(t, cache.Put(ctx, "new", "", 1, nil))

	n, err := cache.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, repo.count())
}
