package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestConsumptionKeyIgnoresOrderAndDuplicates(t *testing.T) {
	assert.Equal(t, "1,2,3", consumptionKey([]int64{3, 1, 2, 3}))
	assert.Equal(t, "", consumptionKey(nil))
}

func TestMemoryConsumptionCacheTTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: baseTime}
	cache := NewMemoryConsumptionCache(30*time.Second, clock.Now)
	records := []models.ConsumptionRecord{{LotID: 1, Quantity: 2, Unit: "kg"}}

	_, ok := cache.Get(ctx, []int64{1, 2})
	assert.False(t, ok)

	cache.Set(ctx, []int64{2, 1}, records)
	got, ok := cache.Get(ctx, []int64{1, 2})
	require.True(t, ok)
	assert.Equal(t, records, got)

	clock.Advance(29 * time.Second)
	_, ok = cache.Get(ctx, []int64{1, 2})
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = cache.Get(ctx, []int64{1, 2})
	assert.False(t, ok, "entry expires exactly at the TTL")
}

func TestMemoryConsumptionCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryConsumptionCache(time.Minute, nil)
	cache.Set(ctx, []int64{1}, nil)
	cache.Set(ctx, []int64{2}, nil)

	cache.Invalidate(ctx)

	_, ok := cache.Get(ctx, []int64{1})
	assert.False(t, ok)
	_, ok = cache.Get(ctx, []int64{2})
	assert.False(t, ok)
}
