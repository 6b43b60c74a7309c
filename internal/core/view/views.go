package view

import (
	"fmt"

	"github.com/zeusync/robotgame/internal/core/actions"
	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

// View is the read-only face of one entity as seen by one agent in one tick.
type View interface {
	ID() models.EntityID
	Kind() models.Kind
	Location() spatial.Point
	// Mine reports whether the viewing agent owns the entity.
	Mine() bool
}

// Attackable views expose health.
type Attackable interface {
	View
	Health() int
	MaxHealth() int
}

type wrapFunc func(g *Game, e models.Entity) View

var registry = map[models.Kind]wrapFunc{
	models.KindRobot:       wrapRobot,
	models.KindSpawner:     wrapSpawner,
	models.KindPowerSource: wrapPowerSource,
}

type entityView struct {
	game   *Game
	entity models.Entity
}

func (v *entityView) ID() models.EntityID     { return v.entity.ID() }
func (v *entityView) Kind() models.Kind       { return v.entity.Kind() }
func (v *entityView) Location() spatial.Point { return v.entity.Location() }
func (v *entityView) Mine() bool              { return false }

func (v *entityView) String() string {
	return fmt.Sprintf("%s@%s", v.entity.Kind(), v.entity.Location())
}

func (v *entityView) queue(action actions.Action) {
	v.game.queue(actions.Bind(v.entity.ID(), action))
}

type RobotView struct {
	entityView
	robot *models.Robot
}

func (v *RobotView) Owner() models.Player { return v.robot.Owner() }
func (v *RobotView) Health() int          { return v.robot.Health() }
func (v *RobotView) MaxHealth() int       { return v.robot.MaxHealth() }
func (v *RobotView) Power() int           { return v.robot.Power() }

// MyRobotView is a robot owned by the viewing agent. Its commands are queued
// and only take effect when the tick is applied.
type MyRobotView struct {
	RobotView
}

func (v *MyRobotView) Mine() bool { return true }

// Move queues a step in dir. It refuses when the destination is a wall or
// holds anything other than a robot; robots may still move away this tick.
func (v *MyRobotView) Move(dir spatial.Direction) bool {
	next := v.Location().Add(dir)
	if v.game.IsWall(next) {
		return false
	}
	for _, e := range v.game.entitiesAt(next) {
		if e.Kind() != models.KindRobot {
			return false
		}
	}
	v.queue(actions.Move{Dir: dir})
	return true
}

// Attack queues a hit on target. Attacks resolve before moves, so adjacency
// in this snapshot is adjacency when the hit lands.
func (v *MyRobotView) Attack(target Attackable) error {
	if !v.Location().IsAdjacent(target.Location()) {
		return fmt.Errorf("%w: %s -> %s", ErrOutOfReach, v.Location(), target.Location())
	}
	v.queue(actions.Attack{Victim: target.ID()})
	return nil
}

// MoveTo queues the first step of a route to dest. The route is kept in the
// agent's memory and followed for up to RouteCacheTicks further calls with
// the same destination, as long as the robot is where the route expects.
func (v *MyRobotView) MoveTo(dest spatial.Point) bool {
	id := v.ID()
	mem := v.game.memory
	if r := mem.route(id); r != nil && r.usable(dest, v.Location()) {
		r.ticks--
		dir := r.path.Direction(r.next)
		r.next++
		return v.Move(dir)
	}

	path, ok := v.game.CreatePath(v.Location(), dest)
	if !ok || path.Len() == 0 {
		mem.forget(id)
		return false
	}
	if !v.Move(path.Direction(0)) {
		mem.forget(id)
		return false
	}
	mem.remember(id, &route{path: path, next: 1, ticks: RouteCacheTicks})
	return true
}

type SpawnerView struct {
	entityView
	spawner *models.Spawner
}

func (v *SpawnerView) Owner() models.Player { return v.spawner.Owner() }
func (v *SpawnerView) Health() int          { return v.spawner.Health() }
func (v *SpawnerView) MaxHealth() int       { return v.spawner.MaxHealth() }
func (v *SpawnerView) Countdown() int       { return v.spawner.Countdown() }
func (v *SpawnerView) Spawning() bool       { return v.spawner.Spawning() }

type MySpawnerView struct {
	SpawnerView
}

func (v *MySpawnerView) Mine() bool { return true }

// StartSpawn queues a new robot and returns the id it will carry.
func (v *MySpawnerView) StartSpawn() (models.EntityID, error) {
	if v.spawner.Countdown() > 0 || v.spawner.Spawning() {
		return models.EntityID{}, fmt.Errorf("%w: %d ticks left", ErrSpawnInProgress, v.spawner.Countdown())
	}
	action := actions.NewStartSpawn()
	v.queue(action)
	return action.RobotID, nil
}

type PowerSourceView struct {
	entityView
	source *models.PowerSource
}

func (v *PowerSourceView) Health() int    { return v.source.Health() }
func (v *PowerSourceView) MaxHealth() int { return v.source.MaxHealth() }

func wrapRobot(g *Game, e models.Entity) View {
	robot := e.(*models.Robot)
	rv := RobotView{entityView: entityView{game: g, entity: e}, robot: robot}
	if robot.Owner().Equal(g.player) {
		return &MyRobotView{RobotView: rv}
	}
	return &rv
}

func wrapSpawner(g *Game, e models.Entity) View {
	spawner := e.(*models.Spawner)
	sv := SpawnerView{entityView: entityView{game: g, entity: e}, spawner: spawner}
	if spawner.Owner().Equal(g.player) {
		return &MySpawnerView{SpawnerView: sv}
	}
	return &sv
}

func wrapPowerSource(g *Game, e models.Entity) View {
	return &PowerSourceView{
		entityView: entityView{game: g, entity: e},
		source:     e.(*models.PowerSource),
	}
}
