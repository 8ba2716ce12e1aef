// Package filter implements the in-place transforms run over a generated tile:
// hydraulic erosion, smoothing and steepness classification.
package filter

import (
	"errors"
	"fmt"

	"github.com/OCharnyshevich/terragen/pkg/world/tile"
)

// ErrUnknownFilter is returned when the configured order names a filter that does not exist.
var ErrUnknownFilter = errors.New("unknown filter")

// Tile is a square grid of cells a filter can read and mutate.
type Tile interface {
	Size() tile.Size
	Backing() []tile.Cell
	// CellRaw returns the cell at border-inclusive (x, z), or tile.Absent() when out of range.
	CellRaw(x, z int) *tile.Cell
}

// Filter mutates a tile's cells in place. iterations lets callers amortize
// seeding across repeated passes.
type Filter interface {
	Apply(t Tile, seedX, seedZ, iterations int)
}

type stage struct {
	name       string
	filter     Filter
	iterations int
}

// Pipeline runs filters in a fixed configured order.
type Pipeline struct {
	stages []stage
}

// NewPipeline builds the filters named in s.Order.
func NewPipeline(s Settings, levels tile.Levels) (*Pipeline, error) {
	p := &Pipeline{}
	for _, name := range s.Order {
		var st stage
		switch name {
		case "erosion":
			st = stage{name, NewErosion(s.Erosion, levels), s.Erosion.Iterations}
		case "smoothing":
			st = stage{name, NewSmoothing(s.Smoothing, levels), s.Smoothing.Iterations}
		case "steepness":
			st = stage{name, NewSteepness(s.Steepness, levels), 1}
		default:
			return nil, fmt.Errorf("filter %q: %w", name, ErrUnknownFilter)
		}
		p.stages = append(p.stages, st)
	}
	return p, nil
}

// Names returns the filter names in application order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, st := range p.stages {
		names[i] = st.name
	}
	return names
}

// Apply runs every stage over t.
func (p *Pipeline) Apply(t Tile, seedX, seedZ int) {
	for _, st := range p.stages {
		st.filter.Apply(t, seedX, seedZ, st.iterations)
	}
}

// ApplyViewport runs the pipeline over a zoomed viewport tile. Erosion works in
// cell units, so its droplet count is scaled down as the zoom grows.
func (p *Pipeline) ApplyViewport(t Tile, centerX, centerZ, zoom float32) {
	seedX, seedZ := int(centerX), int(centerZ)
	for _, st := range p.stages {
		iterations := st.iterations
		if _, ok := st.filter.(*Erosion); ok && zoom > 1 {
			iterations = int(float32(iterations) / zoom)
		}
		st.filter.Apply(t, seedX, seedZ, iterations)
	}
}
