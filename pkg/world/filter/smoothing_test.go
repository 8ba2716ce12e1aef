package filter

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// lowland keeps every value below ground level where smoothing runs at full strength.
func lowland(x, z int) float32 {
	return 0.05 + 0.15*hashNoise(x, z)
}

func TestSmoothingZeroIterationsNoop(t *testing.T) {
	g := newGridTile(32, 4, lowland)
	before := g.values()
	NewSmoothing(DefaultSettings().Smoothing, testLevels).Apply(g, 0, 0, 0)
	if !floats.Equal(before, g.values()) {
		t.Error("Apply with zero iterations modified the tile")
	}
}

func TestSmoothingVarianceNonIncreasing(t *testing.T) {
	g := newGridTile(32, 4, lowland)
	s := NewSmoothing(DefaultSettings().Smoothing, testLevels)

	prev := stat.Variance(g.values(), nil)
	for i := range 6 {
		s.Apply(g, 0, 0, 1)
		vals := g.values()
		for _, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("pass %d produced non-finite value", i)
			}
		}
		v := stat.Variance(vals, nil)
		if v > prev+1e-12 {
			t.Fatalf("pass %d: variance rose from %v to %v", i, prev, v)
		}
		prev = v
	}
}

func TestSmoothingFadesOnMountains(t *testing.T) {
	// Above ground+150 the inverted modifier is zero.
	high := testLevels.GroundOffset(160)
	g := newGridTile(16, 2, func(x, z int) float32 {
		return high + 0.05*hashNoise(x, z)
	})
	before := g.values()
	NewSmoothing(DefaultSettings().Smoothing, testLevels).Apply(g, 0, 0, 3)
	if !floats.Equal(before, g.values()) {
		t.Error("smoothing should not change cells above the fade range")
	}
}

func TestSmoothingSkipsBorder(t *testing.T) {
	g := newGridTile(16, 2, lowland)
	s := NewSmoothing(DefaultSettings().Smoothing, testLevels)
	edge := g.cells[g.size.IndexOf(0, 0)].Value
	s.Apply(g, 0, 0, 2)
	if got := g.cells[g.size.IndexOf(0, 0)].Value; got != edge {
		t.Errorf("corner cell changed from %v to %v", edge, got)
	}
}
