package gen

import "github.com/OCharnyshevich/terragen/pkg/world/tile"

// BiomeInfo describes one biome ID.
type BiomeInfo struct {
	ID          tile.Biome
	Name        string
	DisplayName string
	Temperature float64
	Rainfall    float64
	Color       int
}

// BiomeRegistry looks up biome metadata by ID or name.
type BiomeRegistry struct {
	byID   map[tile.Biome]BiomeInfo
	byName map[string]BiomeInfo
	all    []BiomeInfo
}

// NewBiomeRegistry returns a registry of the biomes the default decorators emit.
func NewBiomeRegistry() *BiomeRegistry {
	return newBiomeRegistry([]BiomeInfo{
		{BiomeOcean, "ocean", "Ocean", 0.5, 0.5, 0x000070},
		{BiomePlains, "plains", "Plains", 0.8, 0.4, 0x8db360},
		{BiomeDesert, "desert", "Desert", 2, 0, 0xfa9418},
		{BiomeMountains, "extreme_hills", "Extreme Hills", 0.2, 0.3, 0x606060},
		{BiomeForest, "forest", "Forest", 0.7, 0.8, 0x056621},
		{BiomeTaiga, "taiga", "Taiga", 0.25, 0.8, 0x0b6659},
		{BiomeTundra, "ice_plains", "Ice Plains", 0, 0.5, 0xffffff},
		{BiomeBeach, "beach", "Beach", 0.8, 0.4, 0xfade55},
		{BiomeJungle, "jungle", "Jungle", 0.95, 0.9, 0x537b09},
		{BiomeDeepOcean, "deep_ocean", "Deep Ocean", 0.5, 0.5, 0x000030},
		{BiomeStoneBeach, "stone_beach", "Stone Beach", 0.2, 0.3, 0xa2a284},
		{BiomeColdBeach, "cold_beach", "Cold Beach", 0.05, 0.3, 0xfaf0c0},
		{BiomeDarkForest, "roofed_forest", "Roofed Forest", 0.7, 0.8, 0x40511a},
		{BiomeSnowyTaiga, "cold_taiga", "Cold Taiga", -0.5, 0.4, 0x31554a},
		{BiomeSavanna, "savanna", "Savanna", 1.2, 0, 0xbdb25f},
	})
}

func newBiomeRegistry(biomes []BiomeInfo) *BiomeRegistry {
	r := &BiomeRegistry{
		byID:   make(map[tile.Biome]BiomeInfo, len(biomes)),
		byName: make(map[string]BiomeInfo, len(biomes)),
		all:    biomes,
	}
	for _, b := range biomes {
		r.byID[b.ID] = b
		r.byName[b.Name] = b
	}
	return r
}

func (r *BiomeRegistry) ByID(id tile.Biome) (BiomeInfo, bool) {
	b, ok := r.byID[id]
	return b, ok
}

func (r *BiomeRegistry) ByName(name string) (BiomeInfo, bool) {
	b, ok := r.byName[name]
	return b, ok
}

func (r *BiomeRegistry) All() []BiomeInfo {
	return r.all
}

// Name returns the biome's name, or "unknown".
func (r *BiomeRegistry) Name(id tile.Biome) string {
	if b, ok := r.byID[id]; ok {
		return b.Name
	}
	return "unknown"
}
