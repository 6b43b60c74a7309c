package pathfinding

import (
	"math/rand/v2"

	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/pkg/sequence"
)

const (
	// ExploreWarnThreshold is the explored-set size past which a search
	// starts reporting itself. The report never changes the result.
	ExploreWarnThreshold = 10000
	ExploreWarnInterval  = 1000
)

// Finder is a best-first search over an implicit graph of P. Neighbors and
// Resistance describe the graph; both must be pure for the duration of one
// search.
type Finder[P comparable] struct {
	Neighbors  func(P) []P
	Resistance func(from, to P) int

	// Rand shuffles neighbour order on every expansion. Nil uses the
	// package-level source.
	Rand   *rand.Rand
	Logger log.Log
}

type Result[P comparable] struct {
	// Points runs from the first step after start up to the goal. It is
	// empty when start itself satisfies the goal.
	Points   []P
	Found    bool
	Explored int
}

// Nearest finds the cheapest route from start to any point satisfying goal.
func (f *Finder[P]) Nearest(start P, goal func(P) bool) Result[P] {
	return f.search(start, goal, nil)
}

// Target finds the cheapest route from start to end, guided by estimate.
// estimate must never overstate the remaining cost.
func (f *Finder[P]) Target(start, end P, estimate func(from, to P) int) Result[P] {
	return f.search(start,
		func(p P) bool { return p == end },
		func(p P) int { return estimate(p, end) },
	)
}

type node[P comparable] struct {
	point  P
	parent *node[P]
	cost   int
}

func (f *Finder[P]) search(start P, goal func(P) bool, estimate func(P) int) Result[P] {
	queue := sequence.NewPriorityQueue[*node[P]]()
	open := make(map[P]*sequence.PriorityItem[*node[P]])
	closed := make(map[P]struct{})

	score := func(n *node[P]) int {
		if estimate == nil {
			return n.cost
		}
		return n.cost + estimate(n.point)
	}

	root := &node[P]{point: start}
	open[start] = queue.Enqueue(root, score(root))

	nextWarn := ExploreWarnThreshold
	for {
		current, ok := queue.Dequeue()
		if !ok {
			return Result[P]{Explored: len(closed)}
		}
		delete(open, current.point)
		closed[current.point] = struct{}{}

		if goal(current.point) {
			return Result[P]{Points: unwind(current), Found: true, Explored: len(closed)}
		}

		if len(closed) > nextWarn {
			f.logger().Warn("path search is exploring a large area",
				log.Int("explored", len(closed)),
				log.Any("at", current.point),
			)
			nextWarn += ExploreWarnInterval
		}

		neighbors := f.Neighbors(current.point)
		f.shuffle(neighbors)
		for _, next := range neighbors {
			if _, done := closed[next]; done {
				continue
			}
			candidate := &node[P]{
				point:  next,
				parent: current,
				cost:   current.cost + f.Resistance(current.point, next),
			}
			if item, queued := open[next]; queued {
				if item.Value.cost <= candidate.cost {
					continue
				}
				queue.Remove(item)
			}
			open[next] = queue.Enqueue(candidate, score(candidate))
		}
	}
}

func (f *Finder[P]) shuffle(points []P) {
	swap := func(i, j int) { points[i], points[j] = points[j], points[i] }
	if f.Rand != nil {
		f.Rand.Shuffle(len(points), swap)
		return
	}
	rand.Shuffle(len(points), swap)
}

func (f *Finder[P]) logger() log.Log {
	if f.Logger == nil {
		return log.Provide()
	}
	return f.Logger
}

func unwind[P comparable](end *node[P]) []P {
	var points []P
	for n := end; n.parent != nil; n = n.parent {
		points = append(points, n.point)
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points
}
