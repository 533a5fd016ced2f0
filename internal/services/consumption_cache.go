package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/solos-ag-ze/Painel-sub001/internal/models"
	"github.com/solos-ag-ze/Painel-sub001/internal/utils"
)

// ConsumptionCache memoizes activity-consumption joins keyed by the set of
// lot ids they were fetched for. Writes that can change consumption must
// call Invalidate.
type ConsumptionCache interface {
	Get(ctx context.Context, lotIDs []int64) ([]models.ConsumptionRecord, bool)
	Set(ctx context.Context, lotIDs []int64, records []models.ConsumptionRecord)
	Invalidate(ctx context.Context)
}

// consumptionKey is order-insensitive: {3,1,2} and {1,2,3} share a key.
func consumptionKey(lotIDs []int64) string {
	ids := make([]int64, len(lotIDs))
	copy(ids, lotIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for i, id := range ids {
		if i > 0 && id == ids[i-1] {
			continue
		}
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

type memoryEntry struct {
	records []models.ConsumptionRecord
	expires time.Time
}

// MemoryConsumptionCache is an in-process cache with a fixed TTL.
type MemoryConsumptionCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryConsumptionCache builds a cache; now may be nil to use the wall clock.
func NewMemoryConsumptionCache(ttl time.Duration, now func() time.Time) *MemoryConsumptionCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryConsumptionCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryConsumptionCache) Get(_ context.Context, lotIDs []int64) ([]models.ConsumptionRecord, bool) {
	key := consumptionKey(lotIDs)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.records, true
}

func (c *MemoryConsumptionCache) Set(_ context.Context, lotIDs []int64, records []models.ConsumptionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[consumptionKey(lotIDs)] = memoryEntry{records: records, expires: c.now().Add(c.ttl)}
}

func (c *MemoryConsumptionCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
}

const (
	consumptionKeyPrefix = "estoque:consumo:"
	consumptionKeyIndex  = "estoque:consumo:chaves"
)

// RedisConsumptionCache shares the memoized joins between API replicas.
// Backend errors degrade to cache misses.
type RedisConsumptionCache struct {
	redis *utils.RedisClient
	ttl   time.Duration
}

func NewRedisConsumptionCache(redis *utils.RedisClient, ttl time.Duration) *RedisConsumptionCache {
	return &RedisConsumptionCache{redis: redis, ttl: ttl}
}

func (c *RedisConsumptionCache) Get(ctx context.Context, lotIDs []int64) ([]models.ConsumptionRecord, bool) {
	var records []models.ConsumptionRecord
	err := c.redis.GetJSON(ctx, consumptionKeyPrefix+consumptionKey(lotIDs), &records)
	if err != nil {
		if !errors.Is(err, utils.ErrCacheMiss) {
			log.Warn().Err(err).Msg("consumption cache read failed")
		}
		return nil, false
	}
	return records, true
}

func (c *RedisConsumptionCache) Set(ctx context.Context, lotIDs []int64, records []models.ConsumptionRecord) {
	key := consumptionKeyPrefix + consumptionKey(lotIDs)
	if err := c.redis.SetJSON(ctx, key, records, c.ttl); err != nil {
		log.Warn().Err(err).Msg("consumption cache write failed")
		return
	}
	// The index outlives its members by one TTL at most.
	if err := c.redis.SAdd(ctx, consumptionKeyIndex, key); err != nil {
		log.Warn().Err(err).Msg("consumption cache index update failed")
		return
	}
	_ = c.redis.Expire(ctx, consumptionKeyIndex, c.ttl)
}

func (c *RedisConsumptionCache) Invalidate(ctx context.Context) {
	keys, err := c.redis.SMembers(ctx, consumptionKeyIndex)
	if err != nil {
		log.Warn().Err(err).Msg("consumption cache invalidation failed")
		return
	}
	if err := c.redis.Delete(ctx, append(keys, consumptionKeyIndex)...); err != nil {
		log.Warn().Err(err).Int("keys", len(keys)).Msg("consumption cache invalidation failed")
	}
}
