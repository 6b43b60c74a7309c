package spatial

import "fmt"

// WorldSize is the edge length of the square, toroidal arena.
const WorldSize = 50

// Point is an immutable cell coordinate. Both components are always kept in
// [0, WorldSize); arithmetic wraps around the arena edges.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Pt builds a Point, wrapping x and y into the arena.
func Pt(x, y int) Point {
	return Point{X: Wrap(x), Y: Wrap(y)}
}

// Wrap maps any integer onto [0, WorldSize).
func Wrap(v int) int {
	v %= WorldSize
	if v < 0 {
		v += WorldSize
	}
	return v
}

func (p Point) Add(dir Direction) Point {
	return Pt(p.X+dir.DX(), p.Y+dir.DY())
}

func (p Point) Sub(dir Direction) Point {
	return Pt(p.X-dir.DX(), p.Y-dir.DY())
}

func (p Point) AddXY(dx, dy int) Point {
	return Pt(p.X+dx, p.Y+dy)
}

// DistanceTo returns the Chebyshev distance, taking the shorter way around
// each axis.
func (p Point) DistanceTo(o Point) int {
	return max(axisDistance(p.X, o.X), axisDistance(p.Y, o.Y))
}

// ManhattanTo returns the number of 4-directional steps between p and o on
// an empty arena.
func (p Point) ManhattanTo(o Point) int {
	return axisDistance(p.X, o.X) + axisDistance(p.Y, o.Y)
}

// IsAdjacent reports whether o is exactly one cardinal step from p.
func (p Point) IsAdjacent(o Point) bool {
	_, ok := p.DirectionTo(o)
	return ok
}

// DirectionTo returns the cardinal direction leading from p to o when the two
// points are neighbours.
func (p Point) DirectionTo(o Point) (Direction, bool) {
	for _, dir := range Directions() {
		if p.Add(dir) == o {
			return dir, true
		}
	}
	return 0, false
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func axisDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return min(d, WorldSize-d)
}
