package tile

// Levels maps block heights to normalized elevation.
type Levels struct {
	WorldHeight int
	WaterY      int
	GroundY     int

	Unit   float32
	Water  float32
	Ground float32
}

// NewLevels builds Levels for a world of worldHeight blocks with the sea surface at seaLevel.
func NewLevels(worldHeight, seaLevel int) Levels {
	if worldHeight < 1 {
		worldHeight = 1
	}
	waterY := min(seaLevel-1, worldHeight)
	groundY := min(seaLevel, worldHeight)
	h := float32(worldHeight)
	return Levels{
		WorldHeight: worldHeight,
		WaterY:      waterY,
		GroundY:     groundY,
		Unit:        1 / h,
		Water:       float32(waterY) / h,
		Ground:      float32(groundY) / h,
	}
}

// GroundOffset returns the elevation n blocks above ground level.
func (l Levels) GroundOffset(n int) float32 {
	return float32(l.GroundY+n) / float32(l.WorldHeight)
}

// WaterOffset returns the elevation n blocks above the water floor.
func (l Levels) WaterOffset(n int) float32 {
	return float32(l.WaterY+n) / float32(l.WorldHeight)
}

// WaterLevel returns the y of the sea surface.
func (l Levels) WaterLevel() int {
	return l.WaterY
}

// Scale converts a normalized elevation to a block y.
func (l Levels) Scale(v float32) int {
	if v >= 1 {
		return l.WorldHeight - 1
	}
	if v <= 0 {
		return 0
	}
	return int(v * float32(l.WorldHeight))
}
