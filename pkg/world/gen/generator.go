// Package gen supplies the collaborators a region generator draws on: the
// height function that seeds raw elevation, the decorators that tag biomes,
// and the pooled WorldGenerator bundling them with a filter pipeline.
package gen

import (
	"fmt"

	"github.com/OCharnyshevich/terragen/pkg/world/filter"
	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

// Heightmap writes raw elevation and climate channels for a world coordinate.
type Heightmap interface {
	Apply(c *tile.Cell, x, z float32)
}

// Decorator tags a filtered cell. Returning true claims the cell and stops
// later decorators from running on it.
type Decorator interface {
	Apply(c *tile.Cell, x, z float32) bool
}

// DecoratorFunc adapts a function to Decorator.
type DecoratorFunc func(c *tile.Cell, x, z float32) bool

func (f DecoratorFunc) Apply(c *tile.Cell, x, z float32) bool {
	return f(c, x, z)
}

// WorldGenerator is one pooled generation context. Its filters keep mutable
// scratch state, so an instance is used by one region build at a time.
type WorldGenerator struct {
	Heightmap  Heightmap
	Filters    *filter.Pipeline
	Decorators []Decorator
}

// Factory constructs WorldGenerator instances for an object pool.
type Factory func() *WorldGenerator

// NewFactory returns a Factory for noise-based terrain. The filter settings are
// validated once here so the factory itself cannot fail.
func NewFactory(seed int64, levels tile.Levels, settings filter.Settings) (Factory, error) {
	if settings.Erosion.Seed == 0 {
		settings.Erosion.Seed = seed
	}
	if _, err := filter.NewPipeline(settings, levels); err != nil {
		return nil, fmt.Errorf("build filter pipeline: %w", err)
	}
	return func() *WorldGenerator {
		pipeline, _ := filter.NewPipeline(settings, levels)
		return &WorldGenerator{
			Heightmap:  NewNoiseHeightmap(seed, levels),
			Filters:    pipeline,
			Decorators: DefaultDecorators(),
		}
	}, nil
}

// ClassifyTerrain assigns the coarse terrain tag for an elevation.
func ClassifyTerrain(levels tile.Levels, v float32) tile.Terrain {
	switch {
	case v < levels.WaterOffset(-20):
		return tile.DeepOcean
	case v < levels.Water:
		return tile.Ocean
	case v < levels.GroundOffset(4):
		return tile.Coast
	case v < levels.GroundOffset(40):
		return tile.Lowland
	case v < levels.GroundOffset(90):
		return tile.Highland
	default:
		return tile.Mountain
	}
}
