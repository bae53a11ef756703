package shutterscene

import "sync/atomic"

type RayCategory uint8

const (
	RayHit      RayCategory = iota // primary ray hit an object
	RayMiss                        // primary ray left the scene (background)
	RayShadowed                    // shadow ray blocked
	RayLit                         // shadow ray reached the light
	numRayCategories
)

func (c RayCategory) String() string {
	switch c {
	case RayHit:
		return "hit"
	case RayMiss:
		return "miss"
	case RayShadowed:
		return "shadowed"
	case RayLit:
		return "lit"
	}
	return "unknown"
}

// RayStats counts color rays per category; safe for concurrent use.
type RayStats struct {
	counts [numRayCategories]atomic.Int64
}

func (s *RayStats) logRay(c RayCategory) {
	s.counts[c].Add(1)
}

// Count returns how many rays of category c were cast since the last Reset.
func (s *RayStats) Count(c RayCategory) int64 {
	return s.counts[c].Load()
}

func (s *RayStats) Reset() {
	for i := range s.counts {
		s.counts[i].Store(0)
	}
}

func (s *RayStats) report() {
	for c := RayCategory(0); c < numRayCategories; c++ {
		DebugLog("Ray type %s: %d rays", c, s.Count(c))
	}
}
