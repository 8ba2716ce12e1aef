package tile

// Modifier scales an amount by a curve evaluated at a cell's elevation.
type Modifier struct {
	min, max float32
	inverted bool
}

// Range returns a Modifier that is 0 below lo, 1 above hi and linear in between.
func Range(lo, hi float32) Modifier {
	return Modifier{min: lo, max: hi}
}

// Invert returns the modifier 1-f.
func (m Modifier) Invert() Modifier {
	m.inverted = !m.inverted
	return m
}

// At evaluates the curve at v.
func (m Modifier) At(v float32) float32 {
	var f float32
	switch {
	case v > m.max:
		f = 1
	case v < m.min:
		f = 0
	case m.max == m.min:
		f = 1
	default:
		f = (v - m.min) / (m.max - m.min)
	}
	if m.inverted {
		return 1 - f
	}
	return f
}

// Modify scales amount by the curve at c's elevation.
func (m Modifier) Modify(c *Cell, amount float32) float32 {
	return amount * m.At(c.Value)
}
