package view

import (
	"math/rand/v2"

	"github.com/zeusync/robotgame/internal/core/actions"
	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/observability/log"
	"github.com/zeusync/robotgame/internal/core/pathfinding"
	"github.com/zeusync/robotgame/internal/core/spatial"
	"github.com/zeusync/robotgame/internal/core/world"
)

const (
	EmptyResistance    = 1
	OccupiedResistance = 1000
)

// Game is one agent's picture of the world for one tick. It reads from a
// snapshot nobody else mutates and records commands instead of applying
// them. A Game is used by a single goroutine.
type Game struct {
	world   *world.World
	player  models.Player
	views   map[models.EntityID]View
	byPoint map[spatial.Point][]models.Entity
	pending *actions.Set

	memory *Memory
	rand   *rand.Rand
	logger log.Log
}

type Option func(*Game)

func WithMemory(m *Memory) Option {
	return func(g *Game) { g.memory = m }
}

// WithRand fixes the source used to shuffle path search neighbours.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rand = r }
}

func WithLogger(l log.Log) Option {
	return func(g *Game) { g.logger = l }
}

// New builds the view of snapshot for player. The snapshot must not be
// mutated while the Game is in use.
func New(snapshot *world.World, player models.Player, opts ...Option) *Game {
	g := &Game{
		world:   snapshot,
		player:  player,
		views:   make(map[models.EntityID]View),
		byPoint: make(map[spatial.Point][]models.Entity),
		pending: actions.NewSet(),
		logger:  log.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	for _, e := range snapshot.All() {
		g.byPoint[e.Location()] = append(g.byPoint[e.Location()], e)
	}
	g.memory.retain(func(id models.EntityID) bool {
		_, ok := snapshot.Get(id)
		return ok
	})
	return g
}

func (g *Game) Me() models.Player {
	return g.player
}

func (g *Game) Tick() int64 {
	return g.world.Tick()
}

// Get returns the view of the entity with id, if it exists in this tick.
func (g *Game) Get(id models.EntityID) (View, bool) {
	e, ok := g.world.Get(id)
	if !ok {
		return nil, false
	}
	return g.wrap(e), true
}

func (g *Game) MyRobots() []*MyRobotView {
	return collect[*MyRobotView](g, models.KindRobot)
}

func (g *Game) EnemyRobots() []*RobotView {
	return collect[*RobotView](g, models.KindRobot)
}

func (g *Game) MySpawners() []*MySpawnerView {
	return collect[*MySpawnerView](g, models.KindSpawner)
}

func (g *Game) EnemySpawners() []*SpawnerView {
	return collect[*SpawnerView](g, models.KindSpawner)
}

func (g *Game) PowerSources() []*PowerSourceView {
	return collect[*PowerSourceView](g, models.KindPowerSource)
}

func (g *Game) ObjectsAt(p spatial.Point) []View {
	return g.ObjectsNear(p, 0)
}

// ObjectsNear returns everything within distance cardinal steps of p,
// nearest first. Walls do not block the count.
func (g *Game) ObjectsNear(p spatial.Point, distance int) []View {
	var out []View
	seen := map[spatial.Point]bool{p: true}
	frontier := []spatial.Point{p}
	for step := 0; len(frontier) > 0; step++ {
		var next []spatial.Point
		for _, cell := range frontier {
			for _, e := range g.byPoint[cell] {
				out = append(out, g.wrap(e))
			}
			if step == distance {
				continue
			}
			for _, dir := range spatial.Directions() {
				n := cell.Add(dir)
				if !seen[n] {
					seen[n] = true
					next = append(next, n)
				}
			}
		}
		frontier = next
	}
	return out
}

func (g *Game) IsWall(p spatial.Point) bool {
	return g.world.Terrain().IsWall(p)
}

func (g *Game) IsWalkable(p spatial.Point) bool {
	return !g.IsWall(p)
}

type pathConfig struct {
	walkable func(spatial.Point) bool
}

type PathOption func(*pathConfig)

// Walkable replaces the default terrain filter of a path search.
func Walkable(fn func(spatial.Point) bool) PathOption {
	return func(c *pathConfig) { c.walkable = fn }
}

// CreatePath plans the cheapest route from start to end. Occupied cells are
// crossable but expensive. end is always admitted even if the walkable
// filter rejects it, so a route can finish next to or onto an entity.
func (g *Game) CreatePath(start, end spatial.Point, opts ...PathOption) (*spatial.Path, bool) {
	walkable := g.pathConfig(opts).walkable
	finder := g.finder(func(p spatial.Point) bool { return p == end || walkable(p) })
	res := finder.Target(start, end, pathfinding.ToroidalEstimate)
	if !res.Found {
		return nil, false
	}
	return spatial.MustPath(start, res.Points), true
}

// CreatePathTo plans the cheapest route from start to the nearest point that
// satisfies goal.
func (g *Game) CreatePathTo(start spatial.Point, goal func(spatial.Point) bool, opts ...PathOption) (*spatial.Path, bool) {
	walkable := g.pathConfig(opts).walkable
	finder := g.finder(func(p spatial.Point) bool { return goal(p) || walkable(p) })
	res := finder.Nearest(start, goal)
	if !res.Found {
		return nil, false
	}
	return spatial.MustPath(start, res.Points), true
}

// FindNearest returns the reachable entity of kind nearest to start by path
// cost among those accept allows. A nil accept allows every entity.
func (g *Game) FindNearest(start spatial.Point, kind models.Kind, accept func(View) bool, opts ...PathOption) (View, bool) {
	candidates := make(map[spatial.Point]View)
	for _, e := range g.world.ByKind(kind) {
		v := g.wrap(e)
		if accept != nil && !accept(v) {
			continue
		}
		if _, taken := candidates[v.Location()]; !taken {
			candidates[v.Location()] = v
		}
	}

	switch len(candidates) {
	case 0:
		return nil, false
	case 1:
		for p, v := range candidates {
			if p == start {
				return v, true
			}
			if _, ok := g.CreatePath(start, p, opts...); ok {
				return v, true
			}
		}
		return nil, false
	}

	if v, ok := candidates[start]; ok {
		return v, true
	}
	path, ok := g.CreatePathTo(start, func(p spatial.Point) bool {
		_, hit := candidates[p]
		return hit
	}, opts...)
	if !ok {
		return nil, false
	}
	return candidates[path.End()], true
}

// PopActions drains the commands queued so far.
func (g *Game) PopActions() []actions.Bound {
	return g.pending.Pop()
}

func (g *Game) queue(b actions.Bound) {
	g.pending.Add(b)
}

func (g *Game) wrap(e models.Entity) View {
	if v, ok := g.views[e.ID()]; ok {
		return v
	}
	v := registry[e.Kind()](g, e)
	g.views[e.ID()] = v
	return v
}

func (g *Game) entitiesAt(p spatial.Point) []models.Entity {
	return g.byPoint[p]
}

func (g *Game) resistance(_, to spatial.Point) int {
	if len(g.byPoint[to]) > 0 {
		return OccupiedResistance
	}
	return EmptyResistance
}

func (g *Game) finder(keep func(spatial.Point) bool) *pathfinding.Finder[spatial.Point] {
	return &pathfinding.Finder[spatial.Point]{
		Neighbors:  pathfinding.Neighbors4(keep),
		Resistance: g.resistance,
		Rand:       g.rand,
		Logger:     g.logger,
	}
}

func (g *Game) pathConfig(opts []PathOption) pathConfig {
	cfg := pathConfig{walkable: g.IsWalkable}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// collect wraps every entity of kind and keeps the views of type V.
func collect[V View](g *Game, kind models.Kind) []V {
	var out []V
	for _, e := range g.world.ByKind(kind) {
		if v, ok := g.wrap(e).(V); ok {
			out = append(out, v)
		}
	}
	return out
}
