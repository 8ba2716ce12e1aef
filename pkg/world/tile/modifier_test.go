package tile

import "testing"

func TestRangeModifier(t *testing.T) {
	m := Range(0.25, 0.75)
	tests := []struct{ v, want float32 }{
		{0, 0}, {0.25, 0}, {0.5, 0.5}, {0.75, 1}, {1, 1},
	}
	for _, tt := range tests {
		if got := m.At(tt.v); got != tt.want {
			t.Errorf("At(%v) = %v, want %v", tt.v, got, tt.want)
		}
		if got := m.Invert().At(tt.v); got != 1-tt.want {
			t.Errorf("Invert().At(%v) = %v, want %v", tt.v, got, 1-tt.want)
		}
	}

	c := &Cell{Value: 0.5}
	if got := m.Modify(c, 2); got != 1 {
		t.Errorf("Modify = %v, want 1", got)
	}
}

func TestLevels(t *testing.T) {
	l := NewLevels(256, 63)
	if l.WaterLevel() != 62 {
		t.Errorf("WaterLevel() = %d, want 62", l.WaterLevel())
	}
	if l.Ground <= l.Water {
		t.Errorf("ground %v should be above water %v", l.Ground, l.Water)
	}
	if got := l.GroundOffset(0); got != l.Ground {
		t.Errorf("GroundOffset(0) = %v, want %v", got, l.Ground)
	}
	if got := l.Scale(l.Ground); got != 63 {
		t.Errorf("Scale(ground) = %d, want 63", got)
	}
	if got := l.Scale(1.5); got != 255 {
		t.Errorf("Scale(1.5) = %d, want 255", got)
	}
}

func TestAbsentSentinel(t *testing.T) {
	if !Absent().IsAbsent() {
		t.Fatal("Absent() should report IsAbsent")
	}
	var c Cell
	if c.IsAbsent() {
		t.Fatal("zero cell should not be absent")
	}
	c.Value = 3
	c.Reset()
	if c.Value != 0 {
		t.Fatal("Reset should clear value")
	}
}
