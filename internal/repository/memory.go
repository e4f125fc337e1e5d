package repository

import (
	"context"
	"sync"

	"mixlab/internal/models"
)

// MemoryStatsCache is the in-process fallback used when redis is down or
// not configured.
type MemoryStatsCache struct {
	mu      sync.RWMutex
	entries map[string]models.CachedStats
}

func NewMemoryStatsCache() *MemoryStatsCache {
	return &MemoryStatsCache{entries: make(map[string]models.CachedStats)}
}

func (m *MemoryStatsCache) Get(_ context.Context, month string) (*models.CachedStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cached, ok := m.entries[month]
	if !ok {
		return nil, nil
	}
	out := cached
	return &out, nil
}

func (m *MemoryStatsCache) Set(_ context.Context, month string, stats *models.CachedStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[month] = *stats
	return nil
}
