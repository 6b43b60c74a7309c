package spatial

import (
	"errors"
	"fmt"
)

var ErrNonAdjacent = errors.New("non-neighbouring points in path")

// Path is a walk across the arena. Points excludes the start; Directions[i]
// is the step that leads onto Points[i].
type Path struct {
	start      Point
	points     []Point
	directions []Direction
}

// NewPath validates that every consecutive pair, beginning with start, is a
// single cardinal step apart.
func NewPath(start Point, points []Point) (*Path, error) {
	p := &Path{
		start:      start,
		points:     make([]Point, len(points)),
		directions: make([]Direction, len(points)),
	}
	copy(p.points, points)

	prev := start
	for i, pt := range points {
		dir, ok := prev.DirectionTo(pt)
		if !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrNonAdjacent, prev, pt)
		}
		p.directions[i] = dir
		prev = pt
	}
	return p, nil
}

// MustPath is NewPath for callers whose neighbour function guarantees
// adjacency. A violation is a bug and panics.
func MustPath(start Point, points []Point) *Path {
	p, err := NewPath(start, points)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Path) Start() Point {
	return p.start
}

func (p *Path) Len() int {
	return len(p.points)
}

func (p *Path) Point(i int) Point {
	return p.points[i]
}

func (p *Path) Direction(i int) Direction {
	return p.directions[i]
}

// End returns the last point of the path, or the start for an empty path.
func (p *Path) End() Point {
	if len(p.points) == 0 {
		return p.start
	}
	return p.points[len(p.points)-1]
}

func (p *Path) Points() []Point {
	out := make([]Point, len(p.points))
	copy(out, p.points)
	return out
}
