package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"weather-comfort/internal/models"
)

type cacheEntry struct {
	series    *models.WeatherSeries
	expiresAt time.Time
}

// PredictionCache is a size-bounded TTL cache of weather series keyed by
// location+window. Purely a service-layer convenience; the acquisition
// strategies never see it.
type PredictionCache struct {
	mu              sync.RWMutex
	entries         map[string]cacheEntry
	logger          *zap.Logger
	defaultDuration time.Duration
	maxSize         int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

func NewPredictionCache(defaultDuration time.Duration, maxSize int, logger *zap.Logger) *PredictionCache {
	cache := &PredictionCache{
		entries:         make(map[string]cacheEntry),
		logger:          logger,
		defaultDuration: defaultDuration,
		maxSize:         maxSize,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	go cache.startCleanup()

	return cache
}

func (c *PredictionCache) Set(key string, series *models.WeatherSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	expiresAt := time.Now().Add(c.defaultDuration)
	c.entries[key] = cacheEntry{
		series:    series,
		expiresAt: expiresAt,
	}

	c.logger.Debug("Prediction cached",
		zap.String("key", key),
		zap.Time("expires_at", expiresAt))
}

func (c *PredictionCache) Get(key string) (*models.WeatherSeries, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.series, true
}

// evictOldest drops the entry closest to expiry. Caller holds the lock.
func (c *PredictionCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.expiresAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.logger.Debug("Evicted oldest prediction from cache",
			zap.String("key", oldestKey))
	}
}

func (c *PredictionCache) startCleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *PredictionCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		c.logger.Debug("Cleaned expired cache entries",
			zap.Int("count", expiredCount))
	}
}

func (c *PredictionCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
}

func (c *PredictionCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"entries":          len(c.entries),
		"max_size":         c.maxSize,
		"default_duration": c.defaultDuration.String(),
	}
}
