package tile

import "fmt"

// Size describes a square tile of edge Size with a Border margin on all sides.
// Size is always a power of two so tile-relative coordinates wrap with a mask.
type Size struct {
	Size   int
	Border int
	Total  int

	mask int
}

// NewSize returns a Size. It panics if size is not a positive power of two.
func NewSize(size, border int) Size {
	if size <= 0 || size&(size-1) != 0 {
		panic(fmt.Sprintf("tile: size %d is not a power of two", size))
	}
	if border < 0 {
		panic(fmt.Sprintf("tile: negative border %d", border))
	}
	return Size{
		Size:   size,
		Border: border,
		Total:  size + 2*border,
		mask:   size - 1,
	}
}

// Chunks returns the size of a region measured in chunks: 1<<factor chunks per edge.
func Chunks(factor, borderChunks int) Size {
	return NewSize(1<<factor, borderChunks)
}

// Blocks returns the size of a region measured in blocks.
func Blocks(factor, borderChunks int) Size {
	chunks := 1 << factor
	return NewSize(ChunkToBlock(chunks), ChunkToBlock(borderChunks))
}

// Mask wraps i into [0, Size).
func (s Size) Mask(i int) int {
	return i & s.mask
}

// Contains reports whether (x, z) lies in [0, Total).
func (s Size) Contains(x, z int) bool {
	return x >= 0 && x < s.Total && z >= 0 && z < s.Total
}

// IndexOf returns the flat index of (x, z). Coordinates outside [0, Total)
// are a caller bug and panic.
func (s Size) IndexOf(x, z int) int {
	if !s.Contains(x, z) {
		panic(fmt.Sprintf("tile: (%d,%d) out of range [0,%d)", x, z, s.Total))
	}
	return z*s.Total + x
}

// Area returns Total*Total.
func (s Size) Area() int {
	return s.Total * s.Total
}

func ChunkToBlock(i int) int {
	return i << 4
}

func BlockToChunk(i int) int {
	return i >> 4
}
