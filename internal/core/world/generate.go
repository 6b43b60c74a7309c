package world

import (
	"math/rand/v2"

	"github.com/zeusync/robotgame/internal/core/pathfinding"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

const (
	corridorHalfWidth = 2
	corridorWander    = 8
	erosionKeep       = 0.65
	smoothingPasses   = 6
)

type cells [spatial.WorldSize][spatial.WorldSize]bool

func (c *cells) wall(p spatial.Point) bool {
	return c[p.X][p.Y]
}

func (c *cells) set(p spatial.Point, wall bool) {
	c[p.X][p.Y] = wall
}

// Generate builds a cave arena. Each seat gets a room, winding corridors join
// neighbouring seats in both directions around the torus, and the result is
// eroded, smoothed and stripped of pockets unreachable from the first seat.
// It also returns up to powerSources cells for power sources, each a wall
// cell bordering the cave near one of eight fixed candidate spots.
func Generate(rng *rand.Rand, powerSources int) (*Terrain, []spatial.Point) {
	var grid cells
	const n = spatial.WorldSize
	inRoomBand := func(v int) bool {
		return (v >= n/5 && v < n*3/10) || (v >= n*7/10 && v < n*4/5)
	}
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			grid[x][y] = !inRoomBand(x) || !inRoomBand(y)
		}
	}

	const lo, hi = n / 4, n * 3 / 4
	for _, c := range []struct{ from, to, across int }{
		{lo, hi, lo}, {lo, hi, hi}, {hi, lo, lo}, {hi, lo, hi},
	} {
		carveCorridor(&grid, rng, c.from, c.to, c.across, true)
		carveCorridor(&grid, rng, c.from, c.to, c.across, false)
	}

	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			grid[x][y] = grid[x][y] && rng.Float64() < erosionKeep
		}
	}
	for i := 0; i < smoothingPasses; i++ {
		grid = smooth(&grid)
	}

	seats := StartPositions()
	for _, seat := range seats {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				grid.set(seat.AddXY(dx, dy), false)
			}
		}
	}
	grid = fillUnreachable(&grid, seats[0])

	terrain := &Terrain{walls: grid}
	return terrain, placePowerSources(&grid, rng, powerSources)
}

// carveCorridor walks from one seat coordinate to another along one axis,
// drifting at most corridorWander cells off the line and returning to it by
// the end.
func carveCorridor(grid *cells, rng *rand.Rand, from, to, across int, horizontal bool) {
	point := func(along, off int) spatial.Point {
		if horizontal {
			return spatial.Pt(along, off)
		}
		return spatial.Pt(off, along)
	}
	carve := func(along, off int) {
		for w := -corridorHalfWidth; w < corridorHalfWidth; w++ {
			grid.set(point(along, off+w), false)
		}
	}

	drift := 0
	for along := from; along != to; along = spatial.Wrap(along + 1) {
		carve(along, across+drift)
		remaining := spatial.Wrap(to - along)
		limit := min(corridorWander, remaining-1)
		switch rng.IntN(3) {
		case 0:
			drift--
		case 1:
			drift++
		}
		drift = max(-limit, min(limit, drift))
		carve(along, across+drift)
	}
}

func smooth(grid *cells) cells {
	var out cells
	for x := 0; x < spatial.WorldSize; x++ {
		for y := 0; y < spatial.WorldSize; y++ {
			walls := 0
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					if grid.wall(spatial.Pt(x+dx, y+dy)) {
						walls++
					}
				}
			}
			out[x][y] = walls > 4
		}
	}
	return out
}

// fillUnreachable turns every open cell a robot could not walk to from
// from into wall.
func fillUnreachable(grid *cells, from spatial.Point) cells {
	var out cells
	for x := range out {
		for y := range out[x] {
			out[x][y] = true
		}
	}
	stack := []spatial.Point{from}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if grid.wall(p) || !out.wall(p) {
			continue
		}
		out.set(p, false)
		for _, dir := range spatial.Directions() {
			stack = append(stack, p.Add(dir))
		}
	}
	return out
}

func placePowerSources(grid *cells, rng *rand.Rand, count int) []spatial.Point {
	const n = spatial.WorldSize
	spots := []spatial.Point{
		spatial.Pt(0, n/4), spatial.Pt(n/2, n/4),
		spatial.Pt(0, n*3/4), spatial.Pt(n/2, n*3/4),
		spatial.Pt(n/4, 0), spatial.Pt(n/4, n/2),
		spatial.Pt(n*3/4, 0), spatial.Pt(n*3/4, n/2),
	}

	taken := make(map[spatial.Point]bool)
	anywhere := pathfinding.GridFinder(nil)
	anywhere.Rand = rng
	// Walks every cell not yet taken, walls included. The first wall it pops
	// always has an open parent, so the chosen cell borders the cave.
	alongCave := pathfinding.GridFinder(func(p spatial.Point) bool { return !taken[p] })
	alongCave.Rand = rng

	var out []spatial.Point
	for _, i := range rng.Perm(len(spots)) {
		if len(out) >= count {
			break
		}
		spot := spots[i]
		if grid.wall(spot) {
			res := anywhere.Nearest(spot, func(p spatial.Point) bool { return !grid.wall(p) })
			if !res.Found {
				continue
			}
			spot = pathEnd(spot, res.Points)
		}
		res := alongCave.Nearest(spot, grid.wall)
		if !res.Found {
			continue
		}
		cell := pathEnd(spot, res.Points)
		taken[cell] = true
		out = append(out, cell)
	}
	return out
}

func pathEnd(start spatial.Point, points []spatial.Point) spatial.Point {
	if len(points) == 0 {
		return start
	}
	return points[len(points)-1]
}
