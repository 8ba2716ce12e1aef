package filter

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

// gridTile is a minimal Tile backed by a flat slice.
type gridTile struct {
	size  tile.Size
	cells []tile.Cell
}

func newGridTile(size, border int, height func(x, z int) float32) *gridTile {
	s := tile.NewSize(size, border)
	g := &gridTile{size: s, cells: make([]tile.Cell, s.Area())}
	for z := 0; z < s.Total; z++ {
		for x := 0; x < s.Total; x++ {
			g.cells[s.IndexOf(x, z)].Value = height(x, z)
		}
	}
	return g
}

func (g *gridTile) Size() tile.Size      { return g.size }
func (g *gridTile) Backing() []tile.Cell { return g.cells }

func (g *gridTile) CellRaw(x, z int) *tile.Cell {
	if !g.size.Contains(x, z) {
		return tile.Absent()
	}
	return &g.cells[g.size.IndexOf(x, z)]
}

func (g *gridTile) values() []float64 {
	out := make([]float64, len(g.cells))
	for i := range g.cells {
		out[i] = float64(g.cells[i].Value)
	}
	return out
}

// hashNoise returns a deterministic pseudo-random value in [0, 1).
func hashNoise(x, z int) float32 {
	h := uint32(x)*374761393 + uint32(z)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float32(h&0xFFFF) / 65536
}

func hills(x, z int) float32 {
	return 0.6 + 0.2*float32(math.Sin(float64(x)/5)*math.Cos(float64(z)/7)) - 0.002*float32(x)
}

var testLevels = tile.NewLevels(256, 63)

func TestPipelineOrder(t *testing.T) {
	s := DefaultSettings()
	s.Order = []string{"steepness", "erosion"}
	p, err := NewPipeline(s, testLevels)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	if got := p.Names(); !slices.Equal(got, []string{"steepness", "erosion"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestPipelineUnknownFilter(t *testing.T) {
	s := DefaultSettings()
	s.Order = []string{"erosion", "blur"}
	_, err := NewPipeline(s, testLevels)
	if !errors.Is(err, ErrUnknownFilter) {
		t.Fatalf("err = %v, want ErrUnknownFilter", err)
	}
}

func TestPipelineFlatFieldStaysFlat(t *testing.T) {
	s := DefaultSettings()
	s.Erosion.Iterations = 500
	p, err := NewPipeline(s, testLevels)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	g := newGridTile(32, 4, func(int, int) float32 { return 0.5 })
	p.Apply(g, 0, 0)

	for i, c := range g.cells {
		if math.Abs(float64(c.Value)-0.5) > 1e-6 {
			t.Fatalf("cell %d = %v, want 0.5", i, c.Value)
		}
		if c.Steepness > 1e-5 {
			t.Fatalf("cell %d steepness = %v, want ~0", i, c.Steepness)
		}
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		ok     bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"erosion radius too large", func(s *Settings) { s.Erosion.Radius = MaxRadius + 1 }, false},
		{"erosion radius zero", func(s *Settings) { s.Erosion.Radius = 0 }, false},
		{"negative lifetime", func(s *Settings) { s.Erosion.MaxDropletLifetime = -1 }, false},
		{"negative iterations", func(s *Settings) { s.Erosion.Iterations = -1 }, false},
		{"inertia above one", func(s *Settings) { s.Erosion.Inertia = 1.5 }, false},
		{"negative gravity", func(s *Settings) { s.Erosion.Gravity = -1 }, false},
		{"smoothing radius NaN", func(s *Settings) { s.Smoothing.Radius = float32(math.NaN()) }, false},
		{"negative smoothing iterations", func(s *Settings) { s.Smoothing.Iterations = -1 }, false},
		{"steepness radius too large", func(s *Settings) { s.Steepness.Radius = 100 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if err := s.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, ok want %v", err, tt.ok)
			}
		})
	}

	s := DefaultSettings()
	s.Order = append(s.Order, "blur")
	if err := s.Validate(); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("err = %v, want ErrUnknownFilter", err)
	}
}
