package region

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/OCharnyshevich/terragen/pkg/concurrent"
)

// DefaultTTL is how long a generated region stays cached.
const DefaultTTL = 30 * time.Second

// CacheOptions configures a Cache.
type CacheOptions struct {
	TTL time.Duration
	// QueueNeighbours prefetches the 8 surrounding regions after every miss.
	QueueNeighbours bool
}

type (
	pending = concurrent.Future[*Region]
	entry   = ttlcache.Item[int64, *pending]
)

type lastAccess struct {
	x, z   int
	region *Region
	item   *entry
}

// Cache keeps recently generated regions for a fixed TTL. Every key maps to
// a future, so concurrent requests for one region share a single generation.
type Cache struct {
	gen   *Generator
	opts  CacheOptions
	items *ttlcache.Cache[int64, *pending]
	log   *slog.Logger

	// mu orders entry insertion against removal of failed entries.
	mu        sync.Mutex
	last      atomic.Pointer[lastAccess]
	closeOnce sync.Once
}

// NewCache creates a Cache over gen and starts its expiry loop. Call Close to stop it.
func NewCache(gen *Generator, opts CacheOptions, log *slog.Logger) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	items := ttlcache.New[int64, *pending](
		ttlcache.WithTTL[int64, *pending](opts.TTL),
		ttlcache.WithDisableTouchOnHit[int64, *pending](),
	)
	go items.Start()

	return &Cache{
		gen:   gen,
		opts:  opts,
		items: items,
		log:   log,
	}
}

// Key packs a region coordinate into a cache key.
func Key(x, z int) int64 {
	return int64(x)<<32 | int64(uint32(z))
}

// GetRegion returns the region at (x, z), generating it on a miss. If
// generation fails the error is logged and the last region served is
// returned instead; that is nil when nothing has been served yet.
func (c *Cache) GetRegion(ctx context.Context, x, z int) *Region {
	last := c.last.Load()
	if last != nil && last.x == x && last.z == z && !last.item.IsExpired() {
		return last.region
	}

	r, err := c.Load(ctx, x, z)
	if err != nil {
		c.log.Warn("region unavailable, serving previous", "x", x, "z", z, "error", err)
		if last != nil {
			return last.region
		}
		return nil
	}
	return r
}

// Load is GetRegion without the stale fallback.
func (c *Cache) Load(ctx context.Context, x, z int) (*Region, error) {
	item := c.lookup(ctx, x, z, false)
	r, err := item.Value().Wait(ctx)
	if err != nil {
		return nil, err
	}
	c.last.Store(&lastAccess{x: x, z: z, region: r, item: item})
	if c.opts.QueueNeighbours {
		c.queueNeighbours(x, z)
	}
	return r, nil
}

// GetChunk returns the chunk at world chunk (x, z) from its owning region.
func (c *Cache) GetChunk(ctx context.Context, x, z int) ChunkReader {
	r := c.GetRegion(ctx, c.gen.regionOf(x), c.gen.regionOf(z))
	if r == nil {
		return nil
	}
	return r.Chunk(x, z)
}

// GetRegionAsync returns the cached future for (x, z), scheduling generation
// on the thread pool when there is none.
func (c *Cache) GetRegionAsync(x, z int) *concurrent.Future[*Region] {
	return c.lookup(context.Background(), x, z, true).Value()
}

// Len returns the number of cached entries, pending ones included.
func (c *Cache) Len() int {
	return c.items.Len()
}

// Close stops the expiry loop.
func (c *Cache) Close() {
	c.closeOnce.Do(c.items.Stop)
}

// lookup returns the cache entry for (x, z). The caller that inserts the
// entry starts the generation, on its own goroutine or on the pool when async
// is set. The generation ignores ctx cancellation since other callers may
// share its future.
func (c *Cache) lookup(ctx context.Context, x, z int, async bool) *entry {
	key := Key(x, z)
	if item := c.items.Get(key); item != nil {
		return item
	}

	c.mu.Lock()
	item, found := c.items.GetOrSet(key, concurrent.NewFuture[*Region]())
	c.mu.Unlock()
	if found {
		return item
	}
	f := item.Value()
	genCtx := context.WithoutCancel(ctx)
	if async {
		c.gen.threads.Go(func() {
			c.generate(genCtx, key, x, z, f)
		})
	} else {
		go c.generate(genCtx, key, x, z, f)
	}
	return item
}

// generate resolves f. A failed entry is removed before f resolves so the
// next request retries, unless a newer entry already replaced it.
func (c *Cache) generate(ctx context.Context, key int64, x, z int, f *pending) {
	r, err := concurrent.Call(func() (*Region, error) {
		return c.gen.GenerateRegion(ctx, x, z)
	})
	if err != nil {
		c.mu.Lock()
		if cur := c.items.Get(key); cur != nil && cur.Value() == f {
			c.items.Delete(key)
		}
		c.mu.Unlock()
	}
	f.Complete(r, err)
}

func (c *Cache) queueNeighbours(x, z int) {
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dz == 0 {
				continue
			}
			c.lookup(context.Background(), x+dx, z+dz, true)
		}
	}
}
