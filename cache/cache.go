// Package cache memoizes solve results keyed by the known-variable state.
// Re-solving the same problem with the same inputs is common in sweeps and
// interactive use; a cache hit replays the solved values without running
// the engine.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sort"
	"sync"

	"github.com/quanta-xyz/go-quanta/problem"
	"github.com/quanta-xyz/go-quanta/quantity"
	"github.com/quanta-xyz/go-quanta/solve"
	"github.com/quanta-xyz/go-quanta/unit"
)

// Entry is a cached solve outcome: the result and the base-unit values of
// every variable the solve produced.
type Entry struct {
	Result *solve.Result
	Values map[string]float64
}

// ResultCache caches solve outcomes keyed by input-state hash. When full,
// an arbitrary entry is evicted. Set maxSize to 0 for unlimited.
type ResultCache struct {
	mu        sync.Mutex
	cache     map[string]*Entry
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewResultCache creates a cache with the given maximum entry count.
func NewResultCache(maxSize int) *ResultCache {
	return &ResultCache{
		cache:   make(map[string]*Entry),
		maxSize: maxSize,
	}
}

// hashState deterministically hashes a name-to-value state map.
func hashState(state map[string]float64) string {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	buf := make([]byte, 8)
	for _, k := range keys {
		h.Write([]byte(k))
		binary.BigEndian.PutUint64(buf, math.Float64bits(state[k]))
		h.Write(buf)
	}
	return string(h.Sum(nil))
}

// Get retrieves the entry for a state, or nil.
func (c *ResultCache) Get(state map[string]float64) *Entry {
	key := hashState(state)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.cache[key]; ok {
		c.hits++
		return e
	}
	c.misses++
	return nil
}

// Put stores an entry for a state.
func (c *ResultCache) Put(state map[string]float64, e *Entry) {
	key := hashState(state)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions++
			break
		}
	}
	c.cache[key] = e
}

// Clear removes all entries.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*Entry)
}

// Size returns the current entry count.
func (c *ResultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Stats reports cache effectiveness.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns a snapshot of cache statistics.
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}

// CachedSolver wraps a problem with result memoization. Solving under a
// previously seen input state replays the cached values into the problem's
// variables instead of running the engine.
type CachedSolver struct {
	p     *problem.Problem
	opts  *solve.Options
	cache *ResultCache
}

// NewCachedSolver creates a caching wrapper around a problem.
func NewCachedSolver(p *problem.Problem, cacheSize int) *CachedSolver {
	return &CachedSolver{
		p:     p,
		cache: NewResultCache(cacheSize),
	}
}

// WithOptions sets the solver options used on cache misses.
func (s *CachedSolver) WithOptions(opts *solve.Options) *CachedSolver {
	s.opts = opts
	return s
}

// Solve runs the engine, or replays a cached outcome for the current
// input state. Replayed values are assigned in canonical base units.
func (s *CachedSolver) Solve() (*solve.Result, error) {
	state := s.knownState()
	if e := s.cache.Get(state); e != nil {
		if err := s.replay(e); err != nil {
			return nil, err
		}
		return e.Result, nil
	}

	res, err := s.p.SolveWith(s.opts, nil)
	if err != nil {
		return nil, err
	}
	values := make(map[string]float64, len(res.Solved))
	for _, name := range res.Solved {
		v, ok := s.p.Variable(name)
		if !ok {
			continue
		}
		q, err := v.Quantity()
		if err != nil {
			continue
		}
		values[name] = q.Base()
	}
	s.cache.Put(state, &Entry{Result: res, Values: values})
	return res, nil
}

// knownState captures the base-unit values of currently known variables.
func (s *CachedSolver) knownState() map[string]float64 {
	state := make(map[string]float64)
	for _, v := range s.p.Variables() {
		if !v.IsKnown() {
			continue
		}
		q, err := v.Quantity()
		if err != nil {
			continue
		}
		state[v.Name()] = q.Base()
	}
	return state
}

func (s *CachedSolver) replay(e *Entry) error {
	for name, base := range e.Values {
		v, ok := s.p.Variable(name)
		if !ok || v.IsKnown() {
			continue
		}
		if err := v.SetKnown(quantity.New(base, unit.Canonical(v.Sig()))); err != nil {
			return err
		}
	}
	return nil
}

// Cache exposes the underlying cache for inspection.
func (s *CachedSolver) Cache() *ResultCache { return s.cache }

// ClearCache drops all memoized results.
func (s *CachedSolver) ClearCache() { s.cache.Clear() }
