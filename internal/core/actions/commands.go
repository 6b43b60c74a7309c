package actions

import (
	"fmt"
	"math"

	"github.com/zeusync/robotgame/internal/core/models"
	"github.com/zeusync/robotgame/internal/core/spatial"
)

// Move steps a robot one cell. It runs after every other action of the tick
// so attacks resolve against pre-move positions.
type Move struct {
	Dir spatial.Direction
}

func (Move) Kind() Kind    { return KindMove }
func (Move) Priority() int { return math.MaxInt }

func (m Move) Perform(target models.Entity) error {
	robot, ok := target.(*models.Robot)
	if !ok {
		return fmt.Errorf("%w: move on %s", ErrWrongTarget, target.Kind())
	}
	robot.Move(m.Dir)
	return nil
}

// Attack makes the bound robot hit Victim if it is still present and
// adjacent when the action is applied.
type Attack struct {
	Victim models.EntityID
}

func (Attack) Kind() Kind    { return KindAttack }
func (Attack) Priority() int { return 0 }

func (a Attack) Perform(target models.Entity) error {
	robot, ok := target.(*models.Robot)
	if !ok {
		return fmt.Errorf("%w: attack by %s", ErrWrongTarget, target.Kind())
	}
	host := robot.Host()
	if host == nil {
		return nil
	}
	victim, ok := host.Get(a.Victim)
	if !ok {
		return nil
	}
	attackable, ok := victim.(models.Attackable)
	if !ok {
		return nil
	}
	robot.Attack(attackable)
	return nil
}

// StartSpawn asks a spawner to begin building a robot with a preassigned id.
type StartSpawn struct {
	RobotID models.EntityID
}

func NewStartSpawn() StartSpawn {
	return StartSpawn{RobotID: models.NewEntityID()}
}

func (StartSpawn) Kind() Kind    { return KindStartSpawn }
func (StartSpawn) Priority() int { return 0 }

func (s StartSpawn) Perform(target models.Entity) error {
	spawner, ok := target.(*models.Spawner)
	if !ok {
		return fmt.Errorf("%w: start spawn on %s", ErrWrongTarget, target.Kind())
	}
	return spawner.StartSpawn(s.RobotID)
}
