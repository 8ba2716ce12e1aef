package gen

import "github.com/OCharnyshevich/terragen/pkg/world/tile"

// Biome IDs matching the Minecraft 1.8 protocol.
const (
	BiomeOcean      tile.Biome = 0
	BiomePlains     tile.Biome = 1
	BiomeDesert     tile.Biome = 2
	BiomeMountains  tile.Biome = 3 // extreme hills
	BiomeForest     tile.Biome = 4
	BiomeTaiga      tile.Biome = 5
	BiomeTundra     tile.Biome = 12
	BiomeBeach      tile.Biome = 16
	BiomeJungle     tile.Biome = 21
	BiomeDeepOcean  tile.Biome = 24
	BiomeStoneBeach tile.Biome = 25
	BiomeColdBeach  tile.Biome = 26
	BiomeDarkForest tile.Biome = 29
	BiomeSnowyTaiga tile.Biome = 30
	BiomeSavanna    tile.Biome = 35
)

// DefaultDecorators returns the standard biome chain: water, shoreline,
// mountains, then climate for everything else.
func DefaultDecorators() []Decorator {
	return []Decorator{
		DecoratorFunc(decorateWater),
		DecoratorFunc(decorateShore),
		DecoratorFunc(decorateMountain),
		DecoratorFunc(decorateClimate),
	}
}

func decorateWater(c *tile.Cell, _, _ float32) bool {
	switch c.Terrain {
	case tile.DeepOcean:
		c.Biome = BiomeDeepOcean
	case tile.Ocean:
		c.Biome = BiomeOcean
	default:
		return false
	}
	return true
}

func decorateShore(c *tile.Cell, _, _ float32) bool {
	switch c.Terrain {
	case tile.Beach:
		if c.Temperature < 0.2 {
			c.Biome = BiomeColdBeach
		} else {
			c.Biome = BiomeBeach
		}
	case tile.Coast:
		// Steep coast that was not retagged as beach.
		c.Biome = BiomeStoneBeach
	default:
		return false
	}
	return true
}

func decorateMountain(c *tile.Cell, _, _ float32) bool {
	if c.Terrain != tile.Mountain {
		return false
	}
	c.Biome = BiomeMountains
	return true
}

func decorateClimate(c *tile.Cell, _, _ float32) bool {
	// Cell temperature is normalized to [0,1]; the climate table expects [0,1.5].
	c.Biome = selectBiome(float64(c.Temperature)*1.5, float64(c.Moisture))
	return true
}

// selectBiome maps temperature and rainfall to a biome ID.
//
//	Temp\Rain     | Dry (<0.3)    | Medium (0.3-0.6) | Wet (>0.6)
//	Cold <0.3     | Tundra (12)   | Snowy Taiga (30)  | Taiga (5)
//	Mild 0.3-0.7  | Plains (1)    | Forest (4)        | Dark Forest (29)
//	Warm 0.7-1.2  | Savanna (35)  | Plains (1)        | Jungle (21)
//	Hot >1.2      | Desert (2)    | Desert (2)        | Jungle (21)
func selectBiome(temp, rain float64) tile.Biome {
	switch {
	case temp < 0.3:
		switch {
		case rain < 0.3:
			return BiomeTundra
		case rain < 0.6:
			return BiomeSnowyTaiga
		default:
			return BiomeTaiga
		}
	case temp < 0.7:
		switch {
		case rain < 0.3:
			return BiomePlains
		case rain < 0.6:
			return BiomeForest
		default:
			return BiomeDarkForest
		}
	case temp < 1.2:
		switch {
		case rain < 0.3:
			return BiomeSavanna
		case rain < 0.6:
			return BiomePlains
		default:
			return BiomeJungle
		}
	default:
		if rain > 0.6 {
			return BiomeJungle
		}
		return BiomeDesert
	}
}
