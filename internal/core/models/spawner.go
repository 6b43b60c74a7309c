package models

import (
	"fmt"

	"github.com/zeusync/robotgame/internal/core/spatial"
)

const (
	SpawnerMaxHealth = 100
	SpawnCountdown   = 5
)

type Spawner struct {
	base
	health
	owner          Player
	countdown      int
	totalCountdown int
	spawning       *Robot
}

var (
	_ Attackable = (*Spawner)(nil)
	_ Owned      = (*Spawner)(nil)
)

func NewSpawner(owner Player, loc spatial.Point) *Spawner {
	return &Spawner{
		base:   newBase(loc),
		health: newHealth(SpawnerMaxHealth),
		owner:  owner,
	}
}

func (s *Spawner) Kind() Kind          { return KindSpawner }
func (s *Spawner) Owner() Player       { return s.owner }
func (s *Spawner) Countdown() int      { return s.countdown }
func (s *Spawner) TotalCountdown() int { return s.totalCountdown }
func (s *Spawner) Spawning() bool      { return s.spawning != nil }

func (s *Spawner) Damage(_ *Robot, amount int) {
	s.hit(s, amount)
}

// StartSpawn begins building a robot that will carry id once it appears.
func (s *Spawner) StartSpawn(id EntityID) error {
	if s.spawning != nil {
		return fmt.Errorf("%w: spawner %s", ErrAlreadySpawning, s.id)
	}
	s.countdown = SpawnCountdown
	s.totalCountdown = SpawnCountdown
	s.spawning = NewRobot(s.owner, s.loc)
	s.spawning.SetID(id)
	return nil
}

// OnTickEnd counts the spawn down. When it reaches zero the robot is placed
// on the first free neighbour in scan order; with no free neighbour the
// countdown is set to one so placement is retried next tick.
func (s *Spawner) OnTickEnd() {
	if s.countdown <= 0 {
		return
	}
	s.countdown--
	if s.countdown > 0 || s.spawning == nil || s.host == nil {
		return
	}
	for _, dir := range spatial.Directions() {
		cell := s.loc.Add(dir)
		if !s.isFree(cell) {
			continue
		}
		robot := s.spawning
		robot.loc = cell
		if err := s.host.Add(robot); err != nil {
			continue
		}
		s.spawning = nil
		s.totalCountdown = 0
		return
	}
	s.countdown = 1
}

func (s *Spawner) Clone() Entity {
	c := *s
	c.host = nil
	if s.spawning != nil {
		c.spawning = s.spawning.Clone().(*Robot)
	}
	return &c
}
