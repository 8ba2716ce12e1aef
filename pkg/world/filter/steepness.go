package filter

import "github.com/OCharnyshevich/terragen/pkg/world/tile"

// Steepness estimates the local slope of every cell from a ring of neighbours
// and retags gentle coast cells as beach.
type Steepness struct {
	radius         int
	scaler         float32
	waterLevel     float32
	beachThreshold float32
}

func NewSteepness(s SteepnessSettings, levels tile.Levels) *Steepness {
	if s.Radius < 1 {
		s.Radius = 1
	}
	return &Steepness{
		radius:         s.Radius,
		scaler:         s.Scaler,
		waterLevel:     levels.Water,
		beachThreshold: s.BeachThreshold,
	}
}

func (s *Steepness) Apply(t Tile, _, _ int, _ int) {
	total := t.Size().Total
	for z := 0; z < total; z++ {
		for x := 0; x < total; x++ {
			s.visit(t, x, z)
		}
	}
}

func (s *Steepness) visit(t Tile, cx, cz int) {
	c := t.CellRaw(cx, cz)
	r := float32(s.radius)

	var dif float32
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dz == 0 {
				continue
			}
			n := t.CellRaw(cx+dx*s.radius, cz+dz*s.radius)
			if n.IsAbsent() {
				continue
			}
			h := max(n.Value, s.waterLevel)
			d := c.Value - h
			if d < 0 {
				d = -d
			}
			dif += d / r
		}
	}

	c.Steepness = min(1, max(0, dif*s.scaler))
	if c.Terrain == tile.Coast && c.Steepness < s.beachThreshold {
		c.Terrain = tile.Beach
	}
}
