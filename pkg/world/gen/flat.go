package gen

import "github.com/OCharnyshevich/terragen/pkg/world/tile"

// FlatHeightmap returns the same elevation everywhere.
type FlatHeightmap struct {
	value   float32
	terrain tile.Terrain
}

// NewFlatHeightmap creates a FlatHeightmap at elevation value.
func NewFlatHeightmap(value float32, levels tile.Levels) *FlatHeightmap {
	return &FlatHeightmap{value: value, terrain: ClassifyTerrain(levels, value)}
}

func (h *FlatHeightmap) Apply(c *tile.Cell, _, _ float32) {
	c.Value = h.value
	c.Terrain = h.terrain
	c.Temperature = 0.5
	c.Moisture = 0.5
}
