// Package cache provides a bounded in-memory TTL cache used by the
// evidence resolver and the file-system probe. Instances are owned by
// the component that creates them and disposed with it; there are no
// process-wide cache singletons.
package cache

import "time"

// Stats reports cache occupancy and effectiveness
type Stats struct {
	Size    int     `json:"size"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// DefaultCleanupInterval is how often the backing store sweeps expired
// entries. Expired entries are also rejected on read, so this only
// bounds memory, not correctness.
const DefaultCleanupInterval = 10 * time.Minute
