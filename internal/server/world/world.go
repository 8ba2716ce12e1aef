package world

import (
	"context"
	"fmt"

	"github.com/OCharnyshevich/terragen/pkg/world/region"
	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

// World answers block-level terrain queries from the region cache.
type World struct {
	cache  *region.Cache
	levels tile.Levels
}

// NewWorld creates a new World over cache.
func NewWorld(cache *region.Cache, levels tile.Levels) *World {
	return &World{cache: cache, levels: levels}
}

// Cell returns the terrain cell at block (x, z). ok is false when the owning
// region could not be generated.
func (w *World) Cell(ctx context.Context, x, z int) (c *tile.Cell, ok bool) {
	cx, cz := tile.BlockToChunk(x), tile.BlockToChunk(z)
	chunk := w.cache.GetChunk(ctx, cx, cz)
	// A stale region from the cache covers other chunks.
	if chunk == nil || chunk.ChunkX() != cx || chunk.ChunkZ() != cz {
		return nil, false
	}
	return chunk.Cell(x&0xF, z&0xF), true
}

// HeightAt returns the surface y at block (x, z), or the water level when the
// region is unavailable.
func (w *World) HeightAt(ctx context.Context, x, z int) int {
	c, ok := w.Cell(ctx, x, z)
	if !ok {
		return w.levels.WaterLevel()
	}
	return w.levels.Scale(c.Value)
}

// TerrainAt returns the terrain tag at block (x, z).
func (w *World) TerrainAt(ctx context.Context, x, z int) tile.Terrain {
	c, ok := w.Cell(ctx, x, z)
	if !ok {
		return tile.TerrainNone
	}
	return c.Terrain
}

// BiomeAt returns the biome ID at block (x, z).
func (w *World) BiomeAt(ctx context.Context, x, z int) tile.Biome {
	c, ok := w.Cell(ctx, x, z)
	if !ok {
		return 0
	}
	return c.Biome
}

// SpawnHeight returns the terrain height at spawn (0, 0) + 1 for a player to stand on.
func (w *World) SpawnHeight(ctx context.Context) int {
	return w.HeightAt(ctx, 0, 0) + 1
}

// PreGenerateRadius generates every region within radius regions of the
// origin and returns them in row order.
func (w *World) PreGenerateRadius(ctx context.Context, radius int) ([]*region.Region, error) {
	regions := make([]*region.Region, 0, (2*radius+1)*(2*radius+1))
	for rz := -radius; rz <= radius; rz++ {
		for rx := -radius; rx <= radius; rx++ {
			r, err := w.cache.Load(ctx, rx, rz)
			if err != nil {
				return regions, fmt.Errorf("pregenerate region %d,%d: %w", rx, rz, err)
			}
			regions = append(regions, r)
		}
	}
	return regions, nil
}
