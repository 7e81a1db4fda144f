package repository

import (
	"sync"
	"time"
)

// IDGenerator hands out creation-time ids: the current Unix millisecond,
// bumped past the last id it issued and past the highest id already stored.
// One generator is shared by every namespace.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDGenerator returns a generator on the wall clock.
func NewIDGenerator() *IDGenerator {
	return NewIDGeneratorWithClock(time.Now)
}

// NewIDGeneratorWithClock returns a generator reading time from now.
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	return &IDGenerator{now: now}
}

// Now is the clock used for ids and display dates.
func (g *IDGenerator) Now() time.Time {
	return g.now()
}

// Next returns a new id strictly greater than floor and than every id this
// generator returned before.
func (g *IDGenerator) Next(floor int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	if id <= floor {
		id = floor + 1
	}
	g.last = id
	return id
}
