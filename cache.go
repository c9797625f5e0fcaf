package sailship

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"
)

// Fingerprint is a content hash of every input a prediction depends on.
// Trajectory and intersection consumers key off the same fingerprint, so the
// two can never fall out of sync through separate invalidation.
type Fingerprint uint64

// PredictFingerprint hashes the start elements, sail state, mass and run
// bounds into a single cache key.
func PredictFingerprint(ship Ship, cfg PredictConfig) Fingerprint {
	h := fnv.New64a()
	buf := make([]byte, 8)
	put := func(f float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		h.Write(buf)
	}
	a, e, i, Ω, ω, M0, epoch := ship.Orbit.Elements()
	for _, f := range []float64{a, e, i, Ω, ω, M0} {
		put(f)
	}
	binary.LittleEndian.PutUint64(buf, uint64(epoch.UnixNano()))
	h.Write(buf)
	h.Write([]byte(ship.Orbit.Origin.Name))
	h.Write([]byte(ship.SOI.Body))
	for _, f := range []float64{ship.Sail.Area, ship.Sail.Reflectivity, ship.Sail.Deployment,
		ship.Sail.Condition, ship.Sail.Yaw, ship.Sail.Pitch, ship.Mass} {
		put(f)
	}
	binary.LittleEndian.PutUint64(buf, uint64(cfg.Duration))
	h.Write(buf)
	binary.LittleEndian.PutUint64(buf, uint64(cfg.Steps))
	h.Write(buf)
	return Fingerprint(h.Sum64())
}

// PredictionCache memoizes predicted trajectories by fingerprint. The
// predictor itself stays pure; this is the single derived-cache layer callers
// share between trajectory rendering and intersection detection.
type PredictionCache struct {
	mu      sync.Mutex
	entries map[Fingerprint][]TrajectoryPoint
	cap     int
}

// NewPredictionCache returns a cache holding up to cap trajectories.
func NewPredictionCache(cap int) *PredictionCache {
	if cap <= 0 {
		cap = 16
	}
	return &PredictionCache{entries: make(map[Fingerprint][]TrajectoryPoint, cap), cap: cap}
}

// Get returns the memoized trajectory for the fingerprint, if any.
func (c *PredictionCache) Get(fp Fingerprint) ([]TrajectoryPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	traj, ok := c.entries[fp]
	return traj, ok
}

// Put stores a trajectory. When full the cache is flushed whole: predictions
// are cheap to rebuild and an LRU would be ceremony.
func (c *PredictionCache) Put(fp Fingerprint, traj []TrajectoryPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.cap {
		c.entries = make(map[Fingerprint][]TrajectoryPoint, c.cap)
	}
	c.entries[fp] = traj
}
