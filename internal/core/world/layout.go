package world

import (
	"fmt"

	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

// StartPositions are the symmetric spawner cells, one per seat, in seat
// order.
func StartPositions() []spatial.Point {
	const lo, hi = spatial.WorldSize / 4, spatial.WorldSize * 3 / 4
	return []spatial.Point{
		spatial.Pt(lo, lo),
		spatial.Pt(hi, lo),
		spatial.Pt(lo, hi),
		spatial.Pt(hi, hi),
	}
}

// NewMatch builds the initial world of a match: one spawner per player at
// its seat, plus the given power sources.
func NewMatch(players []models.Player, terrain *Terrain, powerSources []spatial.Point, opts ...Option) (*World, error) {
	starts := StartPositions()
	if len(players) > len(starts) {
		return nil, fmt.Errorf("%w: %d players, %d seats", ErrTooManyPlayers, len(players), len(starts))
	}

	w := New(terrain, opts...)
	for i, player := range players {
		if !w.IsPassable(starts[i]) {
			return nil, fmt.Errorf("%w: %s", ErrBlockedStart, starts[i])
		}
		if err := w.Add(models.NewSpawner(player, starts[i])); err != nil {
			return nil, err
		}
	}
	for _, p := range powerSources {
		if err := w.Add(models.NewPowerSource(p)); err != nil {
			return nil, err
		}
	}

	w.logger.Info("match created",
		log.Int("players", len(players)),
		log.Int("power_sources", len(powerSources)),
		log.Int("walls", len(w.terrain.Walls())),
	)
	return w, nil
}
