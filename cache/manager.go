package cache

import (
	"io"
)

const DEFAULT_POPULATION_INTERVAL = 10 // Ticks between populations.

// Manager populates a cache at a fixed cadence of ticks.
type Manager struct {
	Cache    *DecodeCache
	Interval int // Ticks per population; values below 1 populate every tick.

	tick int
}

// NewManager creates a manager of cache.
func NewManager(cache *DecodeCache, interval int) *Manager {
	return &Manager{
		Cache:    cache,
		Interval: interval,
	}
}

// Tick advances the counter, and populates the cache from stream when it
// reaches the interval.
func (mgr *Manager) Tick(stream io.ReadSeeker) (populated bool, count int, err error) {
	mgr.tick++
	if mgr.tick < mgr.Interval {
		return
	}

	mgr.tick = 0
	populated = true
	count, err = mgr.Cache.Populate(stream)
	return
}

// Reset restarts the tick counter.
func (mgr *Manager) Reset() {
	mgr.tick = 0
}
