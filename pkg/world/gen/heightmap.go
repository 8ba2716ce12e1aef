package gen

import (
	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

// NoiseHeightmap produces elevation from layered simplex noise and climate
// channels from perlin noise.
type NoiseHeightmap struct {
	continent opensimplex.Noise
	terrain   opensimplex.Noise
	detail    opensimplex.Noise

	temperature *perlin.Perlin
	moisture    *perlin.Perlin

	levels tile.Levels
}

// NewNoiseHeightmap creates a NoiseHeightmap from a seed.
func NewNoiseHeightmap(seed int64, levels tile.Levels) *NoiseHeightmap {
	return &NoiseHeightmap{
		continent:   opensimplex.NewNormalized(seed),
		terrain:     opensimplex.NewNormalized(seed + 1),
		detail:      opensimplex.NewNormalized(seed + 2),
		temperature: perlin.NewPerlin(2, 2, 3, seed+100),
		moisture:    perlin.NewPerlin(2, 2, 3, seed+200),
		levels:      levels,
	}
}

func (h *NoiseHeightmap) Apply(c *tile.Cell, x, z float32) {
	fx, fz := float64(x), float64(z)

	continent := octaveNoise(h.continent, fx/2048, fz/2048, 3, 0.5)
	base := octaveNoise(h.terrain, fx/256, fz/256, 6, 0.5)
	detail := octaveNoise(h.detail, fx/32, fz/32, 3, 0.5)

	v := 0.1 + 0.5*continent + 0.35*(base-0.5) + 0.03*(detail-0.5)
	c.Value = clamp32(float32(v), 0, 1)
	c.Continent = float32(continent)
	c.Terrain = ClassifyTerrain(h.levels, c.Value)

	// Temperature drops with altitude above ground.
	temp := 0.5 + 0.8*h.temperature.Noise2D(fx/1024, fz/1024)
	if c.Value > h.levels.Ground {
		temp -= float64(c.Value-h.levels.Ground) * 0.6
	}
	c.Temperature = clamp32(float32(temp), 0, 1)
	c.Moisture = clamp32(float32(0.5+0.8*h.moisture.Noise2D(fx/1024+100, fz/1024+100)), 0, 1)
}

// octaveNoise layers octaves of normalized noise; the result stays in [0, 1).
func octaveNoise(n opensimplex.Noise, x, z float64, octaves int, persistence float64) float64 {
	var total, maxVal float64
	amplitude, frequency := 1.0, 1.0
	for range octaves {
		total += n.Eval2(x*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

func clamp32(v, lo, hi float32) float32 {
	return max(lo, min(hi, v))
}
