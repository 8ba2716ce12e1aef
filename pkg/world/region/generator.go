package region

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/OCharnyshevich/terragen/pkg/concurrent"
	"github.com/OCharnyshevich/terragen/pkg/world/gen"
)

// Generator builds regions using pooled WorldGenerator instances.
type Generator struct {
	factor int
	border int

	pool    *concurrent.ObjectPool[*gen.WorldGenerator]
	threads *concurrent.ThreadPool
	log     *slog.Logger

	generated atomic.Int64
}

// GeneratorBuilder configures a Generator.
type GeneratorBuilder struct {
	factor   int
	border   int
	poolSize int
	factory  gen.Factory
	threads  *concurrent.ThreadPool
	log      *slog.Logger
}

// NewGeneratorBuilder returns a builder for 8x8-chunk regions with a 2-chunk border.
func NewGeneratorBuilder() *GeneratorBuilder {
	return &GeneratorBuilder{factor: 3, border: 2}
}

// Factor sets log2 of the region edge in chunks.
func (b *GeneratorBuilder) Factor(factor int) *GeneratorBuilder {
	b.factor = factor
	return b
}

// Border sets the margin in chunks.
func (b *GeneratorBuilder) Border(border int) *GeneratorBuilder {
	b.border = border
	return b
}

func (b *GeneratorBuilder) Factory(f gen.Factory) *GeneratorBuilder {
	b.factory = f
	return b
}

func (b *GeneratorBuilder) ThreadPool(p *concurrent.ThreadPool) *GeneratorBuilder {
	b.threads = p
	return b
}

// PoolSize caps the number of WorldGenerator instances. It defaults to the
// thread pool size.
func (b *GeneratorBuilder) PoolSize(n int) *GeneratorBuilder {
	b.poolSize = n
	return b
}

func (b *GeneratorBuilder) Logger(l *slog.Logger) *GeneratorBuilder {
	b.log = l
	return b
}

// Build validates the configuration and creates the Generator.
func (b *GeneratorBuilder) Build() (*Generator, error) {
	if b.factory == nil {
		return nil, errors.New("region: generator factory is required")
	}
	if b.factor < 0 || b.factor > 8 {
		return nil, fmt.Errorf("region: factor %d out of range [0,8]", b.factor)
	}
	if b.border < 0 {
		return nil, fmt.Errorf("region: negative border %d", b.border)
	}

	threads := b.threads
	if threads == nil {
		threads = concurrent.NewThreadPool(0)
	}
	size := b.poolSize
	if size <= 0 {
		size = threads.Workers()
	}
	log := b.log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Generator{
		factor:  b.factor,
		border:  b.border,
		pool:    concurrent.NewObjectPool[*gen.WorldGenerator](size, b.factory),
		threads: threads,
		log:     log,
	}, nil
}

// Factor returns log2 of the region edge in chunks.
func (g *Generator) Factor() int { return g.factor }

// Border returns the region margin in chunks.
func (g *Generator) Border() int { return g.border }

// Generated returns how many regions this generator has built.
func (g *Generator) Generated() int64 {
	return g.generated.Load()
}

// GenerateRegion builds, filters and decorates the region at (x, z).
func (g *Generator) GenerateRegion(ctx context.Context, x, z int) (*Region, error) {
	start := time.Now()

	lease, err := g.pool.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("region %d,%d: %w", x, z, err)
	}
	defer lease.Release()
	wg := lease.Value()

	r := New(x, z, g.factor, g.border)
	if err := r.GenerateBase(wg.Heightmap, g.threads.Batcher(r.ChunkCount())); err != nil {
		return nil, fmt.Errorf("region %d,%d: %w", x, z, err)
	}
	wg.Filters.Apply(r, x, z)
	r.Decorate(wg.Decorators)

	g.generated.Add(1)
	g.log.Debug("region generated", "x", x, "z", z, "took", time.Since(start))
	return r, nil
}

// GenerateRegionAsync schedules GenerateRegion on the thread pool.
func (g *Generator) GenerateRegionAsync(x, z int) *concurrent.Future[*Region] {
	return concurrent.Submit(g.threads, func() (*Region, error) {
		return g.GenerateRegion(context.Background(), x, z)
	})
}

// GenerateViewport builds a (0, 0)-addressed region that resamples the
// height function around (cx, cz) with zoom world units per cell. Filters
// run only when filter is set.
func (g *Generator) GenerateViewport(ctx context.Context, cx, cz, zoom float32, filter bool) (*Region, error) {
	if !(zoom > 0) || !finite(zoom) || !finite(cx) || !finite(cz) {
		return nil, fmt.Errorf("centre (%v,%v) zoom %v: %w", cx, cz, zoom, ErrInvalidViewport)
	}

	lease, err := g.pool.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("viewport: %w", err)
	}
	defer lease.Release()
	wg := lease.Value()

	r := New(0, 0, g.factor, g.border)
	if err := r.GenerateViewport(wg.Heightmap, cx, cz, zoom, g.threads.Batcher(r.ChunkCount())); err != nil {
		return nil, fmt.Errorf("viewport: %w", err)
	}
	if filter {
		wg.Filters.ApplyViewport(r, cx, cz, zoom)
	}
	if err := r.Check(); err != nil {
		return nil, fmt.Errorf("viewport: %w", err)
	}
	r.Decorate(wg.Decorators)

	g.generated.Add(1)
	return r, nil
}

// regionOf maps a world chunk coordinate to its region coordinate.
func (g *Generator) regionOf(chunk int) int {
	return chunk >> g.factor
}
