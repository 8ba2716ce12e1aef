package filter

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

// Erosion simulates water droplets flowing downhill, picking up sediment on
// descent and depositing it in pits and on uphill steps.
//
// The brush tables are cached per tile size, so an Erosion must not be shared
// between goroutines.
type Erosion struct {
	s        ErosionSettings
	modifier tile.Modifier

	total   int
	brush   []int32   // flattened neighbour indices
	weights []float32 // matching normalized weights
	offsets []int32   // brush[offsets[i]:offsets[i+1]] belongs to cell i
}

// NewErosion creates an Erosion filter. Erosion and deposition fade out over the
// first 15 blocks above ground level.
func NewErosion(s ErosionSettings, levels tile.Levels) *Erosion {
	if s.Radius < 1 {
		s.Radius = 1
	}
	return &Erosion{
		s:        s,
		modifier: tile.Range(levels.Ground, levels.GroundOffset(15)),
	}
}

func (e *Erosion) Apply(t Tile, seedX, seedZ, iterations int) {
	total := t.Size().Total
	if total < 2 || iterations <= 0 {
		return
	}
	if total != e.total {
		e.initBrush(total)
	}

	cells := t.Backing()
	rng := newTileRNG(e.s.Seed, seedX, seedZ, 700)
	for range iterations {
		x := rng.nextN(total - 1)
		z := rng.nextN(total - 1)
		e.drop(cells, total, float32(x), float32(z))
	}
}

// initBrush precomputes, for every cell, the circular neighbourhood within the
// erosion radius and its normalized weights.
func (e *Erosion) initBrush(total int) {
	r := e.s.Radius
	r2 := r * r

	n := total * total
	e.total = total
	e.offsets = make([]int32, n+1)
	e.brush = e.brush[:0]
	e.weights = e.weights[:0]

	for i := range n {
		cx, cz := i%total, i/total
		start := len(e.brush)
		var sum float32
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				d2 := dx*dx + dz*dz
				if d2 >= r2 {
					continue
				}
				x, z := cx+dx, cz+dz
				if x < 0 || x >= total || z < 0 || z >= total {
					continue
				}
				w := 1 - float32(math.Sqrt(float64(d2)))/float32(r)
				sum += w
				e.brush = append(e.brush, int32(z*total+x))
				e.weights = append(e.weights, w)
			}
		}
		for j := start; j < len(e.weights); j++ {
			e.weights[j] /= sum
		}
		e.offsets[i+1] = int32(len(e.brush))
	}
}

// heightAndGradient bilinearly samples the height and slope at p.
func heightAndGradient(cells []tile.Cell, total int, p mgl32.Vec2) (float32, mgl32.Vec2) {
	cx, cz := int(p.X()), int(p.Y())
	u, v := p.X()-float32(cx), p.Y()-float32(cz)

	i := cz*total + cx
	nw := cells[i].Value
	ne := cells[i+1].Value
	sw := cells[i+total].Value
	se := cells[i+total+1].Value

	grad := mgl32.Vec2{
		(ne-nw)*(1-v) + (se-sw)*v,
		(sw-nw)*(1-u) + (se-ne)*u,
	}
	h := nw*(1-u)*(1-v) + ne*u*(1-v) + sw*(1-u)*v + se*u*v
	return h, grad
}

func (e *Erosion) drop(cells []tile.Cell, total int, x, z float32) {
	s := &e.s
	pos := mgl32.Vec2{x, z}
	var dir mgl32.Vec2
	speed := s.InitialSpeed
	water := s.InitialWaterVolume
	var sediment float32
	limit := float32(total - 1)

	for range s.MaxDropletLifetime {
		nodeX, nodeZ := int(pos.X()), int(pos.Y())
		index := nodeZ*total + nodeX
		u, v := pos.X()-float32(nodeX), pos.Y()-float32(nodeZ)

		height, grad := heightAndGradient(cells, total, pos)

		dir = dir.Mul(s.Inertia).Sub(grad.Mul(1 - s.Inertia))
		l := dir.Len()
		if isNaN(l) {
			l = 0
		}
		if l != 0 {
			dir = dir.Mul(1 / l)
		} else {
			dir = mgl32.Vec2{}
		}
		pos = pos.Add(dir)

		if (dir.X() == 0 && dir.Y() == 0) || pos.X() < 0 || pos.X() >= limit || pos.Y() < 0 || pos.Y() >= limit {
			break
		}

		newHeight, _ := heightAndGradient(cells, total, pos)
		delta := newHeight - height

		capacity := max(-delta*speed*water*s.SedimentCapacityFactor, s.MinSedimentCapacity)

		if sediment > capacity || delta > 0 {
			var amount float32
			if delta > 0 {
				amount = min(delta, sediment)
			} else {
				amount = (sediment - capacity) * s.DepositSpeed
			}
			sediment -= amount
			e.deposit(&cells[index], amount*(1-u)*(1-v))
			e.deposit(&cells[index+1], amount*u*(1-v))
			e.deposit(&cells[index+total], amount*(1-u)*v)
			e.deposit(&cells[index+total+1], amount*u*v)
		} else {
			amount := min((capacity-sediment)*s.ErodeSpeed, -delta)
			for j := e.offsets[index]; j < e.offsets[index+1]; j++ {
				c := &cells[e.brush[j]]
				sediment += e.erode(c, min(c.Value, amount*e.weights[j]))
			}
		}

		speed = float32(math.Sqrt(float64(speed*speed + delta*s.Gravity)))
		if isNaN(speed) {
			speed = 0
		}
		water *= 1 - s.EvaporateSpeed
	}
}

func (e *Erosion) deposit(c *tile.Cell, amount float32) {
	change := e.modifier.Modify(c, amount)
	if v := c.Value + change; v > 1 {
		change = 1 - c.Value
	}
	c.Value += change
	c.Sediment += change
}

// erode removes up to amount from c and returns what was actually removed.
func (e *Erosion) erode(c *tile.Cell, amount float32) float32 {
	change := min(e.modifier.Modify(c, amount), c.Value)
	c.Value -= change
	c.Erosion += change
	return change
}

func isNaN(f float32) bool {
	return f != f
}
