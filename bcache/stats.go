package bcache

import "github.com/djdv/go-kcore/internal/spinlock"

type (
	// LockStats reports acquisitions and failed
	// test-and-set attempts for one bucket lock.
	LockStats = spinlock.Stats
	// Stats is a snapshot of cache activity.
	Stats struct {
		// Hits counts lookups that found the block cached.
		Hits uint64
		// Misses counts lookups that did not find the block cached.
		// Every miss ends in exactly one of Recycled, Steals,
		// Raced or Exhausted.
		Misses uint64
		// Recycled counts misses served from the block's own bucket.
		Recycled uint64
		// Steals counts misses served by moving
		// a slot in from another bucket.
		Steals uint64
		// Raced counts misses that took a slot from another bucket
		// only to find the block cached meanwhile; the existing slot
		// is used and the taken one is kept as a spare.
		Raced uint64
		// Exhausted counts misses that found every slot referenced.
		Exhausted uint64
		Buckets   []LockStats
	}
)

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	stats := Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Recycled:  c.recycled.Load(),
		Steals:    c.steals.Load(),
		Raced:     c.raced.Load(),
		Exhausted: c.exhausted.Load(),
		Buckets:   make([]LockStats, len(c.buckets)),
	}
	for i := range c.buckets {
		stats.Buckets[i] = c.buckets[i].lock.Stats()
	}
	return stats
}

// Contention sums the spins of every bucket lock.
func (s Stats) Contention() (spins uint64) {
	for _, bkt := range s.Buckets {
		spins += bkt.Spins
	}
	return spins
}
