package filter

import (
	"math"

	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

// Smoothing is a weighted-average low-pass filter. It is strongest at low
// elevations and fades out towards mountains.
type Smoothing struct {
	radius   int
	rad2     float32
	strength float32
	modifier tile.Modifier
}

func NewSmoothing(s SmoothingSettings, levels tile.Levels) *Smoothing {
	return &Smoothing{
		radius:   int(math.Round(float64(s.Radius) + 0.5)),
		rad2:     s.Radius * s.Radius,
		strength: s.Rate,
		modifier: tile.Range(levels.GroundOffset(10), levels.GroundOffset(150)).Invert(),
	}
}

func (s *Smoothing) Apply(t Tile, _, _ int, iterations int) {
	if s.rad2 <= 0 {
		return
	}
	for range iterations {
		s.apply(t)
	}
}

func (s *Smoothing) apply(t Tile) {
	total := t.Size().Total
	hi := total - s.radius
	for z := s.radius; z < hi; z++ {
		for x := s.radius; x < hi; x++ {
			c := t.CellRaw(x, z)

			var sum, weights float32
			for dz := -s.radius; dz <= s.radius; dz++ {
				for dx := -s.radius; dx <= s.radius; dx++ {
					d2 := float32(dx*dx + dz*dz)
					if d2 > s.rad2 {
						continue
					}
					n := t.CellRaw(x+dx, z+dz)
					if n.IsAbsent() {
						continue
					}
					w := 1 - d2/s.rad2
					sum += n.Value * w
					weights += w
				}
			}

			if weights > 0 {
				dif := c.Value - sum/weights
				c.Value -= s.modifier.Modify(c, dif*s.strength)
			}
		}
	}
}
