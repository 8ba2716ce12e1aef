package gen

import (
	"testing"

	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

func decorate(c *tile.Cell) {
	for _, d := range DefaultDecorators() {
		if d.Apply(c, 0, 0) {
			return
		}
	}
}

func TestDefaultDecorators(t *testing.T) {
	tests := []struct {
		name string
		cell tile.Cell
		want tile.Biome
	}{
		{"deep ocean", tile.Cell{Terrain: tile.DeepOcean}, BiomeDeepOcean},
		{"ocean", tile.Cell{Terrain: tile.Ocean, Temperature: 0.9}, BiomeOcean},
		{"beach", tile.Cell{Terrain: tile.Beach, Temperature: 0.5}, BiomeBeach},
		{"cold beach", tile.Cell{Terrain: tile.Beach, Temperature: 0.1}, BiomeColdBeach},
		{"steep coast", tile.Cell{Terrain: tile.Coast}, BiomeStoneBeach},
		{"mountain", tile.Cell{Terrain: tile.Mountain, Temperature: 0.9}, BiomeMountains},
		{"tundra", tile.Cell{Terrain: tile.Lowland, Temperature: 0.1, Moisture: 0.1}, BiomeTundra},
		{"forest", tile.Cell{Terrain: tile.Lowland, Temperature: 0.4, Moisture: 0.5}, BiomeForest},
		{"desert", tile.Cell{Terrain: tile.Highland, Temperature: 1, Moisture: 0.1}, BiomeDesert},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.cell
			decorate(&c)
			if c.Biome != tt.want {
				t.Errorf("biome = %d, want %d", c.Biome, tt.want)
			}
		})
	}
}

func TestDecoratorShortCircuit(t *testing.T) {
	calls := 0
	chain := []Decorator{
		DecoratorFunc(func(c *tile.Cell, _, _ float32) bool { calls++; return true }),
		DecoratorFunc(func(c *tile.Cell, _, _ float32) bool { calls++; return true }),
	}
	var c tile.Cell
	for _, d := range chain {
		if d.Apply(&c, 0, 0) {
			break
		}
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestSelectBiome(t *testing.T) {
	tests := []struct {
		temp, rain float64
		want       tile.Biome
	}{
		{0.1, 0.1, BiomeTundra},
		{0.1, 0.4, BiomeSnowyTaiga},
		{0.1, 0.8, BiomeTaiga},
		{0.5, 0.1, BiomePlains},
		{0.5, 0.8, BiomeDarkForest},
		{1.0, 0.1, BiomeSavanna},
		{1.0, 0.8, BiomeJungle},
		{1.4, 0.1, BiomeDesert},
		{1.4, 0.9, BiomeJungle},
	}
	for _, tt := range tests {
		if got := selectBiome(tt.temp, tt.rain); got != tt.want {
			t.Errorf("selectBiome(%v, %v) = %d, want %d", tt.temp, tt.rain, got, tt.want)
		}
	}
}
