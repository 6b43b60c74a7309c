package config

import (
	"math/rand/v2"

	"github.com/zeusync/robotgame/internal/core/spatial"
	"github.com/zeusync/robotgame/internal/core/world"
)

// Arena resolves the terrain section into a wall mask and power source
// cells.
func (c *MatchConfig) Arena() (*world.Terrain, []spatial.Point) {
	if c.Terrain.Generate {
		rng := rand.New(rand.NewPCG(c.Terrain.Seed, c.Terrain.Seed^0x9e3779b97f4a7c15))
		return world.Generate(rng, c.Terrain.Sources)
	}
	sources := make([]spatial.Point, len(c.PowerSources))
	for i, p := range c.PowerSources {
		sources[i] = spatial.Pt(p.X, p.Y)
	}
	return world.TerrainFromWalls(c.Terrain.Walls), sources
}
