package pathfinding

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

func newGridFinder(keep func(spatial.Point) bool) *Finder[spatial.Point] {
	f := GridFinder(keep)
	f.Rand = rand.New(rand.NewPCG(1, 2))
	f.Logger = log.NewNop()
	return f
}

func assertContiguous(t *testing.T, start spatial.Point, points []spatial.Point) {
	t.Helper()
	_, err := spatial.NewPath(start, points)
	require.NoError(t, err)
}

func TestTargetStraightLine(t *testing.T) {
	f := newGridFinder(nil)
	start, end := spatial.Pt(5, 5), spatial.Pt(5, 12)

	res := f.Target(start, end, ToroidalEstimate)

	require.True(t, res.Found)
	assert.Len(t, res.Points, 7)
	assert.Equal(t, end, res.Points[len(res.Points)-1])
	assertContiguous(t, start, res.Points)
}

func TestNearestStraightLine(t *testing.T) {
	f := newGridFinder(nil)
	start, end := spatial.Pt(20, 3), spatial.Pt(31, 3)

	res := f.Nearest(start, func(p spatial.Point) bool { return p == end })

	require.True(t, res.Found)
	assert.Len(t, res.Points, 11)
	assertContiguous(t, start, res.Points)
}

func TestTargetCrossesSeam(t *testing.T) {
	f := newGridFinder(nil)
	start, end := spatial.Pt(1, 5), spatial.Pt(48, 5)

	res := f.Target(start, end, ToroidalEstimate)

	require.True(t, res.Found)
	assert.Len(t, res.Points, 3)
	assert.Equal(t, spatial.Pt(0, 5), res.Points[0])
}

func TestStartSatisfiesGoal(t *testing.T) {
	f := newGridFinder(nil)
	start := spatial.Pt(9, 9)

	res := f.Nearest(start, func(p spatial.Point) bool { return p == start })

	assert.True(t, res.Found)
	assert.Empty(t, res.Points)
	assert.Equal(t, 1, res.Explored)
}

func TestNoPathExploresReachableOnly(t *testing.T) {
	inBox := func(p spatial.Point) bool {
		return p.X >= 10 && p.X <= 12 && p.Y >= 10 && p.Y <= 12
	}
	f := newGridFinder(inBox)

	res := f.Nearest(spatial.Pt(11, 11), func(spatial.Point) bool { return false })

	assert.False(t, res.Found)
	assert.Nil(t, res.Points)
	assert.Equal(t, 9, res.Explored)

	res = f.Target(spatial.Pt(11, 11), spatial.Pt(30, 30), ToroidalEstimate)
	assert.False(t, res.Found)
	assert.Equal(t, 9, res.Explored)
}

func TestResistancePrefersCheapRoute(t *testing.T) {
	blocked := spatial.Pt(5, 6)
	f := newGridFinder(nil)
	f.Resistance = func(_, to spatial.Point) int {
		if to == blocked {
			return 1000
		}
		return 1
	}

	res := f.Target(spatial.Pt(5, 5), spatial.Pt(5, 7), ToroidalEstimate)

	require.True(t, res.Found)
	assert.NotContains(t, res.Points, blocked)
	assert.Len(t, res.Points, 4)
}

func TestRelaxationReplacesCostlierFrontierEntry(t *testing.T) {
	// 0 -> 1 costs 10, 0 -> 2 -> 1 costs 2.
	edges := map[int][]int{0: {1, 2}, 2: {1}, 1: {3}}
	cost := map[[2]int]int{{0, 1}: 10, {0, 2}: 1, {2, 1}: 1, {1, 3}: 1}
	f := &Finder[int]{
		Neighbors:  func(n int) []int { return append([]int(nil), edges[n]...) },
		Resistance: func(a, b int) int { return cost[[2]int{a, b}] },
		Logger:     log.NewNop(),
	}

	res := f.Nearest(0, func(n int) bool { return n == 3 })

	require.True(t, res.Found)
	assert.Equal(t, []int{2, 1, 3}, res.Points)
}

func TestLargeSearchWarnsWithoutChangingResult(t *testing.T) {
	const size = 20000
	core, logs := observer.New(zapcore.WarnLevel)
	f := &Finder[int]{
		Neighbors: func(n int) []int {
			if n+1 >= size {
				return nil
			}
			return []int{n + 1}
		},
		Resistance: func(_, _ int) int { return 1 },
		Logger:     log.NewWithCore(core),
	}

	res := f.Nearest(0, func(int) bool { return false })

	assert.False(t, res.Found)
	assert.Equal(t, size, res.Explored)
	assert.Equal(t, 10, logs.FilterMessage("path search is exploring a large area").Len())
}

func TestToroidalEstimate(t *testing.T) {
	assert.Equal(t, 0, ToroidalEstimate(spatial.Pt(3, 3), spatial.Pt(3, 3)))
	assert.Equal(t, 7, ToroidalEstimate(spatial.Pt(5, 5), spatial.Pt(5, 12)))
	assert.Equal(t, 3, ToroidalEstimate(spatial.Pt(1, 5), spatial.Pt(48, 5)))
	assert.Equal(t, 4, ToroidalEstimate(spatial.Pt(49, 49), spatial.Pt(1, 1)))
	assert.Equal(t, 50, ToroidalEstimate(spatial.Pt(0, 0), spatial.Pt(25, 25)))
}

func TestNeighbors4Filters(t *testing.T) {
	wall := spatial.Pt(0, 49)
	neighbors := Neighbors4(func(p spatial.Point) bool { return p != wall })(spatial.Pt(0, 0))

	assert.Len(t, neighbors, 3)
	assert.NotContains(t, neighbors, wall)
	assert.Contains(t, neighbors, spatial.Pt(49, 0))
}
