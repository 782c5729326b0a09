package plan

import "math"

// CascadeRadius is the pixel offset from center per cascade step, so
// multiple flagged windows stay simultaneously visible.
const CascadeRadius = 60

// Offset is a cascade displacement from the work-area center.
type Offset struct {
	X, Y int
}

// Fixed cardinal/diagonal directions for the first nine positions.
// Index 0 is dead center, reserved for the highest priority window.
var cascadeDirections = []Offset{
	{0, 0},   // center (highest priority)
	{-1, -1}, // top-left
	{1, -1},  // top-right
	{-1, 1},  // bottom-left
	{1, 1},   // bottom-right
	{0, -1},  // top
	{-1, 0},  // left
	{1, 0},   // right
	{0, 1},   // bottom
}

// CascadeOffsets returns the offset for each cascade position, indexed
// from 0 (center, highest priority) outward. Positions past the fixed
// directions fall back to rings of eight at increasing radius.
func CascadeOffsets(count int) []Offset {
	if count <= 0 {
		return nil
	}
	offsets := make([]Offset, 0, count)
	for i := 0; i < count; i++ {
		if i < len(cascadeDirections) {
			d := cascadeDirections[i]
			offsets = append(offsets, Offset{X: d.X * CascadeRadius, Y: d.Y * CascadeRadius})
			continue
		}
		ring := (i-len(cascadeDirections))/8 + 2
		posInRing := (i - len(cascadeDirections)) % 8
		angle := float64(posInRing) * (math.Pi / 4)
		radius := float64(CascadeRadius * ring)
		offsets = append(offsets, Offset{
			X: int(radius * math.Cos(angle)),
			Y: int(radius * math.Sin(angle)),
		})
	}
	return offsets
}
