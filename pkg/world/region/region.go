// Package region builds and caches bordered square tiles of terrain cells.
//
// A Region owns one contiguous cell arena. Chunks are views into that arena
// (an offset plus the region's row stride), so handing a chunk to a reader
// never copies cells. A region is written only by the goroutines generating
// it; once it is published to a cache it is read-only.
package region

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/OCharnyshevich/terragen/pkg/concurrent"
	"github.com/OCharnyshevich/terragen/pkg/world/gen"
	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

// ChunkEdge is the number of blocks along one side of a chunk.
const ChunkEdge = 16

var (
	// ErrNonFinite is returned by Check when a cell holds NaN or Inf.
	ErrNonFinite = errors.New("non-finite cell value")
	// ErrInvalidViewport is returned for a viewport with a non-positive zoom or non-finite centre.
	ErrInvalidViewport = errors.New("invalid viewport")
)

// ChunkReader gives read access to the 16x16 cells of one chunk.
type ChunkReader interface {
	// ChunkX and ChunkZ return the chunk's world chunk coordinates.
	ChunkX() int
	ChunkZ() int
	// Cell returns the cell at chunk-local (dx, dz), each in [0, 16).
	Cell(dx, dz int) *tile.Cell
	// Iterate visits every cell with its world block coordinates.
	Iterate(v tile.Visitor)
}

// Chunk is a view of 16x16 cells inside a region's arena.
type Chunk struct {
	region *Region
	// tile-relative chunk position, border included
	x, z   int
	offset int
}

func (c *Chunk) ChunkX() int {
	return c.region.ChunkX() + c.x - c.region.chunks.Border
}

func (c *Chunk) ChunkZ() int {
	return c.region.ChunkZ() + c.z - c.region.chunks.Border
}

func (c *Chunk) Cell(dx, dz int) *tile.Cell {
	if dx < 0 || dx >= ChunkEdge || dz < 0 || dz >= ChunkEdge {
		panic(fmt.Sprintf("region: chunk cell (%d,%d) out of range", dx, dz))
	}
	return &c.region.cells[c.offset+dz*c.region.blocks.Total+dx]
}

func (c *Chunk) Iterate(v tile.Visitor) {
	bx := tile.ChunkToBlock(c.ChunkX())
	bz := tile.ChunkToBlock(c.ChunkZ())
	stride := c.region.blocks.Total
	for dz := range ChunkEdge {
		row := c.offset + dz*stride
		for dx := range ChunkEdge {
			v(&c.region.cells[row+dx], bx+dx, bz+dz)
		}
	}
}

// Region is a bordered square of chunks addressed by region coordinates.
type Region struct {
	x, z   int
	factor int

	chunks tile.Size
	blocks tile.Size

	cells []tile.Cell
	views []Chunk
}

// New allocates a region with 1<<factor chunks per edge and border chunks of
// margin on every side.
func New(x, z, factor, border int) *Region {
	chunks := tile.Chunks(factor, border)
	blocks := tile.Blocks(factor, border)

	r := &Region{
		x:      x,
		z:      z,
		factor: factor,
		chunks: chunks,
		blocks: blocks,
		cells:  make([]tile.Cell, blocks.Area()),
		views:  make([]Chunk, chunks.Area()),
	}
	for cz := range chunks.Total {
		for cx := range chunks.Total {
			r.views[chunks.IndexOf(cx, cz)] = Chunk{
				region: r,
				x:      cx,
				z:      cz,
				offset: blocks.IndexOf(tile.ChunkToBlock(cx), tile.ChunkToBlock(cz)),
			}
		}
	}
	return r
}

// X returns the region x coordinate.
func (r *Region) X() int { return r.x }

// Z returns the region z coordinate.
func (r *Region) Z() int { return r.z }

// ChunkX returns the world chunk x of the region's first inner chunk.
func (r *Region) ChunkX() int { return r.x << r.factor }

// ChunkZ returns the world chunk z of the region's first inner chunk.
func (r *Region) ChunkZ() int { return r.z << r.factor }

// BlockX returns the world block x of the region's first inner cell.
func (r *Region) BlockX() int { return tile.ChunkToBlock(r.ChunkX()) }

// BlockZ returns the world block z of the region's first inner cell.
func (r *Region) BlockZ() int { return tile.ChunkToBlock(r.ChunkZ()) }

// ChunkSize returns the region's size in chunks.
func (r *Region) ChunkSize() tile.Size { return r.chunks }

// BlockSize returns the region's size in blocks.
func (r *Region) BlockSize() tile.Size { return r.blocks }

// ChunkCount returns the number of chunks in the tile, border included.
func (r *Region) ChunkCount() int { return r.chunks.Area() }

// Size implements filter.Tile.
func (r *Region) Size() tile.Size { return r.blocks }

// Backing implements filter.Tile.
func (r *Region) Backing() []tile.Cell { return r.cells }

// CellRaw returns the cell at border-inclusive tile coordinates, or the
// absent sentinel outside the tile.
func (r *Region) CellRaw(x, z int) *tile.Cell {
	if !r.blocks.Contains(x, z) {
		return tile.Absent()
	}
	return &r.cells[r.blocks.IndexOf(x, z)]
}

// Cell returns the inner cell for a world block coordinate. Coordinates wrap
// into the region, so callers must only pass blocks the region owns.
func (r *Region) Cell(blockX, blockZ int) *tile.Cell {
	x := r.blocks.Mask(blockX) + r.blocks.Border
	z := r.blocks.Mask(blockZ) + r.blocks.Border
	return &r.cells[r.blocks.IndexOf(x, z)]
}

// Chunk returns the inner chunk for a world chunk coordinate. Coordinates wrap
// the same way as Cell.
func (r *Region) Chunk(chunkX, chunkZ int) ChunkReader {
	return r.chunkRaw(r.chunks.Mask(chunkX)+r.chunks.Border, r.chunks.Mask(chunkZ)+r.chunks.Border)
}

func (r *Region) chunkRaw(x, z int) *Chunk {
	return &r.views[r.chunks.IndexOf(x, z)]
}

// Iterate visits every inner cell with its world block coordinates.
func (r *Region) Iterate(v tile.Visitor) {
	lo, hi := r.chunks.Border, r.chunks.Border+r.chunks.Size
	for cz := lo; cz < hi; cz++ {
		for cx := lo; cx < hi; cx++ {
			r.chunkRaw(cx, cz).Iterate(v)
		}
	}
}

// GenerateBase fills every cell, border included, from h. One task per chunk
// is submitted to b; GenerateBase returns once b has drained.
func (r *Region) GenerateBase(h gen.Heightmap, b *concurrent.Batcher) error {
	for i := range r.views {
		c := &r.views[i]
		b.Submit(func() {
			bx := tile.ChunkToBlock(c.ChunkX())
			bz := tile.ChunkToBlock(c.ChunkZ())
			for dz := range ChunkEdge {
				for dx := range ChunkEdge {
					cell := c.Cell(dx, dz)
					cell.Reset()
					h.Apply(cell, float32(bx+dx), float32(bz+dz))
				}
			}
		})
	}
	return b.Close()
}

// GenerateViewport fills the tile from h by resampling around a centre
// point: tile cell (x, z) samples (cx + (x-half)*zoom, cz + (z-half)*zoom).
// The region should be addressed at (0, 0).
func (r *Region) GenerateViewport(h gen.Heightmap, cx, cz, zoom float32, b *concurrent.Batcher) error {
	half := float32(r.blocks.Total) / 2
	stride := r.blocks.Total
	for i := range r.views {
		c := &r.views[i]
		b.Submit(func() {
			x0, z0 := tile.ChunkToBlock(c.x), tile.ChunkToBlock(c.z)
			for dz := range ChunkEdge {
				row := c.offset + dz*stride
				wz := cz + (float32(z0+dz)-half)*zoom
				for dx := range ChunkEdge {
					cell := &r.cells[row+dx]
					cell.Reset()
					h.Apply(cell, cx+(float32(x0+dx)-half)*zoom, wz)
				}
			}
		})
	}
	return b.Close()
}

// Check verifies every cell holds finite values.
func (r *Region) Check() error {
	for i := range r.cells {
		c := &r.cells[i]
		if !finite(c.Value) || !finite(c.Steepness) || !finite(c.Sediment) || !finite(c.Erosion) {
			x, z := i%r.blocks.Total, i/r.blocks.Total
			return fmt.Errorf("region %d,%d cell (%d,%d): %w", r.x, r.z, x, z, ErrNonFinite)
		}
	}
	return nil
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// Decorate runs ds over every inner cell, stopping at the first decorator
// that claims a cell.
func (r *Region) Decorate(ds []gen.Decorator) {
	if len(ds) == 0 {
		return
	}
	r.Iterate(func(c *tile.Cell, x, z int) {
		for _, d := range ds {
			if d.Apply(c, float32(x), float32(z)) {
				return
			}
		}
	})
}

// Stats summarizes the elevation of the inner cells.
type Stats struct {
	Min, Max     float64
	Mean, StdDev float64
}

// Stats computes elevation statistics over the inner cells.
func (r *Region) Stats() Stats {
	values := make([]float64, 0, r.blocks.Size*r.blocks.Size)
	r.Iterate(func(c *tile.Cell, _, _ int) {
		values = append(values, float64(c.Value))
	})
	mean, std := stat.MeanStdDev(values, nil)
	return Stats{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: std,
	}
}
