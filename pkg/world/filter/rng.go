package filter

// tileRNG is a deterministic LCG seeded per tile.
type tileRNG struct {
	state int64
}

func newTileRNG(seed int64, x, z int, salt int64) *tileRNG {
	s := seed ^ (int64(x)*341873128712 + int64(z)*132897987541 + salt)
	return &tileRNG{state: s}
}

func (r *tileRNG) next() int64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// nextN returns a value in [0, n).
func (r *tileRNG) nextN(n int) int {
	v := int(r.next()>>33) % n
	if v < 0 {
		v = -v
	}
	return v
}
