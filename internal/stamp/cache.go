// Package stamp caches rasterized coverage masks so that a batch template
// is rasterized once per subpixel phase instead of once per placement.
package stamp

import (
	"container/list"
	"encoding/binary"
	"hash/fnv"
	"image"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/compose"
)

const (
	// DefaultCapacity is the default number of masks kept per shard.
	DefaultCapacity = 64

	// shardCount must be a power of 2.
	shardCount = 16
	shardMask  = shardCount - 1
)

// Key identifies one rasterized mask.
type Key struct {
	// Shape is the primitive translated so that its bounds start at the
	// origin.
	Shape compose.Primitive

	Stroke bool    // stroke outline instead of the filled interior
	Width  float64 // stroke width in millimeters
	Scale  float64 // pixels per millimeter

	// PhaseX and PhaseY are the subpixel position of the shape inside
	// its mask, in quarters of a pixel.
	PhaseX, PhaseY uint8
}

// hash is FNV-1a over the shape kind, the float bits of the shape and the
// remaining fields. Negative zero is folded into zero so that keys equal
// under == land in the same shard.
func (k Key) hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:]) // fnv.Write never returns an error
	}
	putFloat := func(vs ...float64) {
		for _, v := range vs {
			if v == 0 {
				v = 0
			}
			put(math.Float64bits(v))
		}
	}

	switch s := k.Shape.(type) {
	case compose.Circle:
		put(uint64(compose.KindCircle))
		putFloat(s.Center.X, s.Center.Y, s.Radius)
	case compose.Ellipse:
		put(uint64(compose.KindEllipse))
		putFloat(s.Center.X, s.Center.Y, s.RX, s.RY)
	case compose.Rectangle:
		put(uint64(compose.KindRectangle))
		putFloat(s.Min.X, s.Min.Y, s.Width, s.Height)
	case compose.Line:
		put(uint64(compose.KindLine))
		putFloat(s.From.X, s.From.Y, s.To.X, s.To.Y)
	default:
		put(math.MaxUint64)
	}

	var flags uint64
	if k.Stroke {
		flags = 1
	}
	put(flags | uint64(k.PhaseX)<<8 | uint64(k.PhaseY)<<16)
	putFloat(k.Width, k.Scale)
	return h.Sum64()
}

// Stats reports cache effectiveness.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits / (hits + misses), or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type entry struct {
	key  Key
	mask *image.Alpha
}

type shard struct {
	mu      sync.Mutex
	entries map[Key]*list.Element
	lru     *list.List // front is most recently used
}

// Cache is a sharded LRU cache of coverage masks. It is safe for
// concurrent use. Cached masks are shared and must not be modified.
type Cache struct {
	shards   [shardCount]*shard
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a cache holding up to capacity masks per shard.
// If capacity <= 0, DefaultCapacity is used.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &shard{
			entries: make(map[Key]*list.Element),
			lru:     list.New(),
		}
	}
	return c
}

func (c *Cache) shard(k Key) *shard {
	return c.shards[k.hash()&shardMask]
}

// Get returns the mask cached under k.
func (c *Cache) Get(k Key) (*image.Alpha, bool) {
	s := c.shard(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[k]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	s.lru.MoveToFront(el)
	c.hits.Add(1)
	return el.Value.(*entry).mask, true
}

// GetOrCreate returns the mask cached under k, rasterizing it with create
// on a miss. create runs with the shard locked, so concurrent callers
// asking for the same key rasterize it once.
func (c *Cache) GetOrCreate(k Key, create func() *image.Alpha) *image.Alpha {
	s := c.shard(k)
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[k]; ok {
		s.lru.MoveToFront(el)
		c.hits.Add(1)
		return el.Value.(*entry).mask
	}
	c.misses.Add(1)

	mask := create()
	for s.lru.Len() >= c.capacity {
		oldest := s.lru.Back()
		s.lru.Remove(oldest)
		delete(s.entries, oldest.Value.(*entry).key)
		c.evictions.Add(1)
	}
	s.entries[k] = s.lru.PushFront(&entry{key: k, mask: mask})
	return mask
}

// Len returns the number of cached masks.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Capacity returns the per-shard capacity.
func (c *Cache) Capacity() int { return c.capacity }

// Clear drops every mask. Statistics are kept.
func (c *Cache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[Key]*list.Element)
		s.lru.Init()
		s.mu.Unlock()
	}
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
