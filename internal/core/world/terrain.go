package world

import "github.com/zeusync/robotgame/internal/core/spatial"

// Rect is a wall rectangle in cell units. It may cross the arena edge and
// wraps like everything else.
type Rect struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

// Terrain is the static passability mask of an arena. It never changes after
// construction, so clones of a world share it.
type Terrain struct {
	walls [spatial.WorldSize][spatial.WorldSize]bool
}

func OpenTerrain() *Terrain {
	return &Terrain{}
}

func TerrainFromWalls(rects []Rect) *Terrain {
	t := &Terrain{}
	for _, r := range rects {
		for dx := 0; dx < r.W; dx++ {
			for dy := 0; dy < r.H; dy++ {
				p := spatial.Pt(r.X+dx, r.Y+dy)
				t.walls[p.X][p.Y] = true
			}
		}
	}
	return t
}

func (t *Terrain) IsWall(p spatial.Point) bool {
	return t.walls[p.X][p.Y]
}

func (t *Terrain) Walls() []spatial.Point {
	var out []spatial.Point
	for x := 0; x < spatial.WorldSize; x++ {
		for y := 0; y < spatial.WorldSize; y++ {
			if t.walls[x][y] {
				out = append(out, spatial.Point{X: x, Y: y})
			}
		}
	}
	return out
}
