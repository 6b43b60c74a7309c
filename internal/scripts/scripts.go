// Package scripts holds the built-in agent programs that a match config can
// refer to by name.
package scripts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zeusync/robotgame/internal/core/agent"
	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/view"
)

var ErrUnknownScript = errors.New("unknown script")

var registry = map[string]agent.ScriptFunc{
	"idle":    Idle,
	"sleeper": Sleeper,
	"forager": Forager,
	"hunter":  Hunter,
}

// Lookup returns the built-in script registered under name.
func Lookup(name string) (agent.Script, error) {
	script, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScript, name)
	}
	return script, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Idle(context.Context, *view.Game) error {
	return nil
}

// Sleeper never answers in time: it blocks until its worker stops.
func Sleeper(ctx context.Context, _ *view.Game) error {
	<-ctx.Done()
	return ctx.Err()
}

// Forager keeps its spawners busy and sends robots to drain the nearest power
// source until they are full, then after the nearest enemy spawner.
func Forager(ctx context.Context, g *view.Game) error {
	spawnAll(g)
	for _, r := range g.MyRobots() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attackAdjacent(g, r) {
			continue
		}
		if r.Power() < models.RobotMaxPower {
			if source, ok := g.FindNearest(r.Location(), models.KindPowerSource, nil); ok {
				approachAndHit(r, source)
				continue
			}
		}
		if target, ok := g.FindNearest(r.Location(), models.KindSpawner, enemy); ok {
			approachAndHit(r, target)
		}
	}
	return nil
}

// Hunter spawns robots and walks each one to the nearest enemy robot, or the
// nearest enemy spawner when no robot is reachable.
func Hunter(ctx context.Context, g *view.Game) error {
	spawnAll(g)
	for _, r := range g.MyRobots() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attackAdjacent(g, r) {
			continue
		}
		target, ok := g.FindNearest(r.Location(), models.KindRobot, enemy)
		if !ok {
			target, ok = g.FindNearest(r.Location(), models.KindSpawner, enemy)
		}
		if ok {
			approachAndHit(r, target)
		}
	}
	return nil
}

func enemy(v view.View) bool {
	return !v.Mine()
}

func spawnAll(g *view.Game) {
	for _, s := range g.MySpawners() {
		if s.Countdown() == 0 && !s.Spawning() {
			_, _ = s.StartSpawn()
		}
	}
}

// attackAdjacent hits the first enemy robot or spawner next to r.
func attackAdjacent(g *view.Game, r *view.MyRobotView) bool {
	for _, v := range g.ObjectsNear(r.Location(), 1) {
		if v.Mine() || v.Kind() == models.KindPowerSource {
			continue
		}
		target, ok := v.(view.Attackable)
		if ok && r.Attack(target) == nil {
			return true
		}
	}
	return false
}

func approachAndHit(r *view.MyRobotView, target view.View) {
	if victim, ok := target.(view.Attackable); ok && r.Location().IsAdjacent(target.Location()) {
		_ = r.Attack(victim)
		return
	}
	r.MoveTo(target.Location())
}
