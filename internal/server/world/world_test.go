package world

import (
	"context"
	"testing"
	"time"

	"github.com/OCharnyshevich/terragen/pkg/concurrent"
	"github.com/OCharnyshevich/terragen/pkg/world/filter"
	"github.com/OCharnyshevich/terragen/pkg/world/gen"
	"github.com/OCharnyshevich/terragen/pkg/world/region"
	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

var testLevels = tile.NewLevels(256, 63)

func newFlatWorld(t *testing.T) (*World, *region.Generator, *region.Cache) {
	t.Helper()
	flat := gen.NewFlatHeightmap(0.5, testLevels)
	g, err := region.NewGeneratorBuilder().
		Factor(1).
		Border(0).
		Factory(func() *gen.WorldGenerator {
			p, _ := filter.NewPipeline(filter.Settings{}, testLevels)
			return &gen.WorldGenerator{Heightmap: flat, Filters: p, Decorators: gen.DefaultDecorators()}
		}).
		ThreadPool(concurrent.NewThreadPool(2)).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	c := region.NewCache(g, region.CacheOptions{TTL: time.Minute}, nil)
	t.Cleanup(c.Close)
	return NewWorld(c, testLevels), g, c
}

func TestWorldFlatQueries(t *testing.T) {
	w, _, _ := newFlatWorld(t)
	ctx := context.Background()

	for _, p := range [][2]int{{0, 0}, {-1, -1}, {100, -250}} {
		if got := w.HeightAt(ctx, p[0], p[1]); got != 128 {
			t.Errorf("HeightAt(%d,%d) = %d, want 128", p[0], p[1], got)
		}
		if got := w.TerrainAt(ctx, p[0], p[1]); got != tile.Highland {
			t.Errorf("TerrainAt(%d,%d) = %v, want highland", p[0], p[1], got)
		}
		if got := w.BiomeAt(ctx, p[0], p[1]); got != gen.BiomePlains {
			t.Errorf("BiomeAt(%d,%d) = %d, want plains", p[0], p[1], got)
		}
	}
}

func TestWorldSpawnHeight(t *testing.T) {
	w, _, _ := newFlatWorld(t)
	// Flat at 0.5 of 256 blocks: surface y=128, SpawnHeight = 128+1 = 129
	if got := w.SpawnHeight(context.Background()); got != 129 {
		t.Errorf("SpawnHeight() = %d, want 129", got)
	}
}

func TestPreGenerateRadius(t *testing.T) {
	w, g, c := newFlatWorld(t)
	regions, err := w.PreGenerateRadius(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}

	// Radius 1 → 3×3 = 9 regions.
	if len(regions) != 9 {
		t.Fatalf("PreGenerateRadius(1) returned %d regions, want 9", len(regions))
	}
	if regions[0].X() != -1 || regions[0].Z() != -1 || regions[8].X() != 1 || regions[8].Z() != 1 {
		t.Error("regions not in row order")
	}
	if g.Generated() != 9 || c.Len() != 9 {
		t.Errorf("generated=%d cached=%d, want 9/9", g.Generated(), c.Len())
	}

	// Cached: no generation needed on second access.
	w.HeightAt(context.Background(), 31, 31)
	if g.Generated() != 9 {
		t.Errorf("Generated() = %d after cached read, want 9", g.Generated())
	}
}
