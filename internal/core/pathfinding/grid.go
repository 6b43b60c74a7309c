package pathfinding

import "github.com/zeusync/robotgame/internal/core/spatial"

// Neighbors4 returns the four wrapped cardinal neighbours of p that pass
// keep. A nil keep accepts every neighbour.
func Neighbors4(keep func(spatial.Point) bool) func(spatial.Point) []spatial.Point {
	return func(p spatial.Point) []spatial.Point {
		out := make([]spatial.Point, 0, 4)
		for _, dir := range spatial.Directions() {
			next := p.Add(dir)
			if keep == nil || keep(next) {
				out = append(out, next)
			}
		}
		return out
	}
}

// ToroidalEstimate is the Manhattan distance on the wrapping arena, the
// shortest of the four unwrapped offsets between a and b.
func ToroidalEstimate(a, b spatial.Point) int {
	best := -1
	for _, dx := range [2]int{0, spatial.WorldSize} {
		for _, dy := range [2]int{0, spatial.WorldSize} {
			d := manhattan(a.X, b.X, dx) + manhattan(a.Y, b.Y, dy)
			if best < 0 || d < best {
				best = d
			}
		}
	}
	return best
}

// UniformResistance charges one per step.
func UniformResistance(_, _ spatial.Point) int {
	return 1
}

// GridFinder is a Finder over the arena with uniform step cost.
func GridFinder(keep func(spatial.Point) bool) *Finder[spatial.Point] {
	return &Finder[spatial.Point]{
		Neighbors:  Neighbors4(keep),
		Resistance: UniformResistance,
	}
}

// manhattan measures one axis either directly or through the seam.
func manhattan(a, b, offset int) int {
	lo, hi := min(a, b), max(a, b)
	if offset == 0 {
		return hi - lo
	}
	return lo + offset - hi
}
