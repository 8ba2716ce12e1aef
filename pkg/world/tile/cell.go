package tile

// Terrain is the coarse terrain classification of a cell.
type Terrain uint8

const (
	TerrainNone Terrain = iota
	DeepOcean
	Ocean
	Coast
	Beach
	Lowland
	Highland
	Mountain
)

var terrainNames = [...]string{
	TerrainNone: "none",
	DeepOcean:   "deep_ocean",
	Ocean:       "ocean",
	Coast:       "coast",
	Beach:       "beach",
	Lowland:     "lowland",
	Highland:    "highland",
	Mountain:    "mountain",
}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

// IsWater reports whether the terrain lies below sea level.
func (t Terrain) IsWater() bool {
	return t == DeepOcean || t == Ocean
}

// Biome is a biome ID written by decorators. Values follow the Minecraft 1.8 biome IDs.
type Biome byte

// Cell is one terrain sample. Cells live in a region's backing array and are
// never allocated individually.
type Cell struct {
	Value     float32 // normalized elevation, 0..1
	Sediment  float32 // mass deposited by erosion
	Erosion   float32 // mass removed by erosion
	Steepness float32 // local slope, 0..1
	Gradient  float32

	Continent   float32
	Temperature float32
	Moisture    float32

	Terrain Terrain
	Biome   Biome

	absent bool
}

// absent is returned for out-of-range raw lookups. It must never be written.
var absent = Cell{absent: true}

// Absent returns the shared sentinel for cells outside a tile.
func Absent() *Cell {
	return &absent
}

// IsAbsent reports whether c is the out-of-range sentinel.
func (c *Cell) IsAbsent() bool {
	return c.absent
}

// Reset clears c for reuse by another generation pass.
func (c *Cell) Reset() {
	*c = Cell{}
}

// Visitor receives a cell with its world block coordinates.
type Visitor func(c *Cell, x, z int)
